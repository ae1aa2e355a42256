package validate_test

import (
	"testing"

	"sendr/internal/validate"
)

func TestPincode(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"560001", true},
		{" 560001 ", true},
		{"060001", false}, // leading zero
		{"56001", false},
		{"5600011", false},
		{"abcdef", false},
		{"", false},
	}
	for _, c := range cases {
		if _, ok := validate.Pincode(c.in); ok != c.ok {
			t.Errorf("Pincode(%q) = %v, want %v", c.in, ok, c.ok)
		}
	}
}

func TestQty(t *testing.T) {
	if validate.Qty("3") != 3 {
		t.Error("plain qty")
	}
	if validate.Qty("0") != 1 || validate.Qty("-2") != 1 || validate.Qty("junk") != 1 {
		t.Error("bad qty should default to 1")
	}
	if validate.Qty("999") != 50 {
		t.Error("qty should clamp at 50")
	}
}

func TestEmail(t *testing.T) {
	if _, ok := validate.Email("asha@example.com"); !ok {
		t.Error("valid email rejected")
	}
	for _, bad := range []string{"", "nope", "a@b", "@example.com"} {
		if _, ok := validate.Email(bad); ok {
			t.Errorf("accepted bad email %q", bad)
		}
	}
}

func TestCategory(t *testing.T) {
	if got, ok := validate.Category(" Dairy-Bakery "); !ok || got != "dairy-bakery" {
		t.Errorf("Category normalization failed: %q %v", got, ok)
	}
	if _, ok := validate.Category("weapons"); ok {
		t.Error("unknown category accepted")
	}
}

func TestPassword(t *testing.T) {
	if !validate.Password("Passw0rd!") {
		t.Error("strong password rejected")
	}
	for _, bad := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		if validate.Password(bad) {
			t.Errorf("weak password accepted: %q", bad)
		}
	}
}

func TestCoord(t *testing.T) {
	if v, ok := validate.Coord("12.9716"); !ok || v != 12.9716 {
		t.Error("valid coord rejected")
	}
	if _, ok := validate.Coord(""); ok {
		t.Error("empty coord should not be ok")
	}
	if _, ok := validate.Coord("999"); ok {
		t.Error("out-of-range coord accepted")
	}
}

func TestPrice(t *testing.T) {
	if v, ok := validate.Price("60.5"); !ok || v != 60.5 {
		t.Error("valid price rejected")
	}
	if _, ok := validate.Price("-1"); ok {
		t.Error("negative price accepted")
	}
	if _, ok := validate.Price("abc"); ok {
		t.Error("junk price accepted")
	}
}
