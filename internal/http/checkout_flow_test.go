package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"sendr/internal/http/handlers"
	"sendr/internal/repos"
	"sendr/internal/services"
)

// newStoreApp wires the storefront routes against an in-memory DB with
// the standard demo seed (shop-bala, prod-tomato qty 10 @ 60, prod-bread qty 0).
func newStoreApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, authSvc)
	authH := &handlers.AuthHandler{Auth: authSvc}
	app.Get("/", deps.BrowseHandler.Home)
	app.Get("/login", authH.LoginForm)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	app.Get("/api/v1/availability", deps.ProductHandler.Availability)
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/order/:id", deps.OrderHandler.View)

	return app, db
}

func cookieVal(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func postForm(t *testing.T, app *fiber.App, path, body, csrfTok, sid string) *http.Response {
	t.Helper()
	if csrfTok != "" {
		body = "csrf=" + csrfTok + "&" + body
	}
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if csrfTok != "" {
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// Full guest checkout: browse, add to cart, place, stock decremented,
// cart cleared.
func TestCheckoutFlow(t *testing.T) {
	app, db := newStoreApp(t)

	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := cookieVal(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	respAdd := postForm(t, app, "/cart", "productId=prod-tomato&qty=3", csrfTok, "")
	if respAdd.StatusCode != http.StatusFound {
		t.Fatalf("cart add expected redirect, got %d", respAdd.StatusCode)
	}
	sid := cookieVal(respAdd, "sid")
	if sid == "" {
		t.Fatal("sid not set after cart add")
	}

	// checkout page shows the cart
	reqCheckout := httptest.NewRequest("GET", "/checkout", nil)
	reqCheckout.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	respCheckout, err := app.Test(reqCheckout)
	if err != nil {
		t.Fatal(err)
	}
	if respCheckout.StatusCode != http.StatusOK {
		t.Fatalf("checkout expected 200, got %d", respCheckout.StatusCode)
	}

	respOrder := postForm(t, app, "/orders", "confirm=1", csrfTok, sid)
	if respOrder.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(respOrder.Body)
		t.Fatalf("place expected redirect, got %d body=%s", respOrder.StatusCode, body)
	}
	loc := respOrder.Header.Get("Location")
	if !strings.HasPrefix(loc, "/order/") {
		t.Fatalf("unexpected redirect target %q", loc)
	}

	var qty int
	if err := db.Get(&qty, `SELECT quantity FROM products WHERE id = 'prod-tomato'`); err != nil {
		t.Fatal(err)
	}
	if qty != 7 {
		t.Fatalf("stock not decremented: qty=%d", qty)
	}

	var lines int
	if err := db.Get(&lines, `SELECT COUNT(*) FROM cart_items`); err != nil {
		t.Fatal(err)
	}
	if lines != 0 {
		t.Fatalf("cart not cleared after placement: %d lines", lines)
	}

	// the order page is reachable at the redirect target
	reqView := httptest.NewRequest("GET", loc, nil)
	reqView.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	respView, err := app.Test(reqView)
	if err != nil {
		t.Fatal(err)
	}
	if respView.StatusCode != http.StatusOK {
		t.Fatalf("order page expected 200, got %d", respView.StatusCode)
	}
}

// The cart accepts out-of-stock items; placement is where stock is
// enforced.
func TestCheckoutOutOfStock(t *testing.T) {
	app, db := newStoreApp(t)

	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := cookieVal(respLogin, "csrf_")

	respAdd := postForm(t, app, "/cart", "productId=prod-bread&qty=1", csrfTok, "")
	if respAdd.StatusCode != http.StatusFound {
		t.Fatalf("cart add expected redirect, got %d", respAdd.StatusCode)
	}
	sid := cookieVal(respAdd, "sid")

	respOrder := postForm(t, app, "/orders", "confirm=1", csrfTok, sid)
	if respOrder.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for out-of-stock placement, got %d", respOrder.StatusCode)
	}

	// nothing was written
	var orders int
	if err := db.Get(&orders, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	if orders != 0 {
		t.Fatalf("order created despite stock failure")
	}
}

// Carts are pinned to one shop; crossing shops gets a 409.
func TestCartSingleShop(t *testing.T) {
	app, db := newStoreApp(t)
	db.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES ('u-ravi','ravi@sendr.test','Ravi','-','VENDOR')`)
	db.MustExec(`INSERT INTO shops(id,vendor_id,name,lat,lng) VALUES ('shop-x','u-ravi','Other Mart',12.98,77.60)`)
	db.MustExec(`INSERT INTO products(id,shop_id,name,price,quantity,available) VALUES ('prod-x','shop-x','Eggs 6 pk',54,20,1)`)

	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := cookieVal(respLogin, "csrf_")

	respAdd := postForm(t, app, "/cart", "productId=prod-tomato&qty=1", csrfTok, "")
	sid := cookieVal(respAdd, "sid")

	respCross := postForm(t, app, "/cart", "productId=prod-x&qty=1", csrfTok, sid)
	if respCross.StatusCode != http.StatusConflict {
		t.Fatalf("cross-shop add expected 409, got %d", respCross.StatusCode)
	}
}

// An empty cart cannot be placed.
func TestPlaceEmptyCart(t *testing.T) {
	app, _ := newStoreApp(t)

	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := cookieVal(respLogin, "csrf_")

	resp := postForm(t, app, "/orders", "confirm=1", csrfTok, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty cart placement expected 400, got %d", resp.StatusCode)
	}
}
