package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sendr/internal/domain"
	applog "sendr/internal/log"
	"sendr/internal/services"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Auth  *services.AuthService
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	if len(cv.Items) == 0 {
		return c.Redirect("/cart")
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

// Place turns the session cart into an order. The cart is only a
// wishlist: stock and prices are re-validated inside the placement
// transaction, regardless of what the cart page showed.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "order.cart.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	if len(cv.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).SendString("cart is empty")
	}

	items := make([]services.ItemRequest, 0, len(cv.Items))
	for _, it := range cv.Items {
		items = append(items, services.ItemRequest{ProductID: it.ProductID, Qty: it.Qty})
	}

	var customerID string
	if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
		customerID = u.ID
	}

	orderID, err := h.Order.Place(customerID, cv.ShopID, items)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).Render("checkout", fiber.Map{
				"Cart": cv,
				"Err":  "Some items just went out of stock. Please review your cart.",
			})
		case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusBadRequest).SendString("Could not place order. Please review your cart and try again.")
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).SendString("The shop is busy right now. Please try again.")
		default:
			return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong placing your order."})
		}
	}

	// Placement committed; a failed cart clear must not fail the order.
	_ = h.Cart.Clear(sid)

	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "shop_id": cv.ShopID})
	return c.Redirect("/order/" + orderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	if oid == "" {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, items, err := h.Order.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in customer.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Order.History(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}
