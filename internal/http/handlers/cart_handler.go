package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sendr/internal/domain"
	applog "sendr/internal/log"
	"sendr/internal/services"
	"sendr/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return sid
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	if err := h.Cart.Add(sid, productID, qty); err != nil {
		switch {
		case errors.Is(err, domain.ErrShopMismatch):
			cv, _ := h.Cart.View(sid)
			c.Status(fiber.StatusConflict)
			return render(c, "cart", fiber.Map{
				"Cart":    cv,
				"Message": "Your cart has items from another shop. Clear it to order from this one.",
			})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(404).SendString("product not found")
		default:
			applog.Error(c, "cart.add", err, map[string]any{"product_id": productID})
			return c.Status(500).SendString("could not add to cart")
		}
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	// qty 0 removes the line
	qty := 0
	if v := c.FormValue("qty"); v != "" && v != "0" {
		qty = validate.Qty(v)
	}
	if err := h.Cart.SetQty(sid, productID, qty); err != nil {
		applog.Error(c, "cart.update", err, map[string]any{"product_id": productID})
		return c.Status(500).SendString("could not update cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "cart.clear", err, nil)
		return c.Status(500).SendString("could not clear cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return c.Status(500).SendString("could not load cart")
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}
