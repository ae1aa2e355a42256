package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sendr/internal/log"
	"sendr/internal/services"
	"sendr/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).Render("login", fiber.Map{"Err": "Enter a valid email"})
	}
	u, err := h.Auth.Login(sid, email, c.FormValue("password"))
	if err != nil {
		applog.Security(c, "login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid email or password"})
	}
	applog.Audit(c, "login.ok", map[string]any{"user_id": u.ID})
	if u.Role == "VENDOR" {
		return c.Redirect("/vendor")
	}
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{})
}

// Register creates a customer account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "Enter your name"})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "Enter a valid email"})
	}
	password := c.FormValue("password")
	if !validate.Password(password) {
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "Password must be 8+ chars with upper, lower and digit"})
	}

	u, err := h.Auth.RegisterCustomer(sid, name, email, c.FormValue("phone"), password)
	if err != nil {
		applog.Error(c, "register.fail", err, map[string]any{"email": email})
		return c.Status(fiber.StatusBadRequest).Render("register", fiber.Map{"Err": "Could not create account (is the email taken?)"})
	}
	applog.Audit(c, "register.ok", map[string]any{"user_id": u.ID})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		_ = h.Auth.Logout(sid)
	}
	return c.Redirect("/")
}
