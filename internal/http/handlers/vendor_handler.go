package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sendr/internal/domain"
	applog "sendr/internal/log"
	"sendr/internal/services"
	"sendr/internal/validate"
)

type VendorHandler struct {
	Vendor *services.VendorService
	Auth   *services.AuthService
}

func (h *VendorHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "vendor_register", fiber.Map{})
}

// Register creates the vendor account and its shop in one go, then
// logs the vendor in.
func (h *VendorHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).Render("vendor_register", fiber.Map{"Err": "Enter your name"})
	}
	shopName, ok := validate.Name(c.FormValue("shopName"))
	if !ok {
		return c.Status(400).Render("vendor_register", fiber.Map{"Err": "Enter a shop name"})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return c.Status(400).Render("vendor_register", fiber.Map{"Err": "Enter a valid email"})
	}
	password := c.FormValue("password")
	if !validate.Password(password) {
		return c.Status(400).Render("vendor_register", fiber.Map{"Err": "Password must be 8+ chars with upper, lower and digit"})
	}
	pincode, ok := validate.Pincode(c.FormValue("pincode"))
	if !ok {
		return c.Status(400).Render("vendor_register", fiber.Map{"Err": "Enter a valid 6-digit PIN code"})
	}
	lat, _ := validate.Coord(c.FormValue("lat"))
	lng, _ := validate.Coord(c.FormValue("lng"))

	u, shop, err := h.Vendor.Register(services.VendorRegistration{
		Name:     name,
		ShopName: shopName,
		Email:    email,
		Phone:    c.FormValue("phone"),
		Password: password,
		Address:  strings.TrimSpace(c.FormValue("address")),
		Pincode:  pincode,
		Lat:      lat,
		Lng:      lng,
	})
	if err != nil {
		applog.Error(c, "vendor.register.fail", err, map[string]any{"email": email})
		return c.Status(400).Render("vendor_register", fiber.Map{"Err": "Could not register (is the email taken?)"})
	}
	if err := h.Auth.Users.BindSession(sid, u.ID); err != nil {
		applog.Error(c, "vendor.register.session", err, nil)
	}
	applog.Audit(c, "vendor.register.ok", map[string]any{"user_id": u.ID, "shop_id": shop.ID})
	return c.Redirect("/vendor")
}

// shop loads the logged-in vendor's shop; RequireVendor has already
// put the user into locals.
func (h *VendorHandler) shop(c *fiber.Ctx) (domain.Shop, error) {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return domain.Shop{}, errors.New("no vendor in context")
	}
	return h.Vendor.ShopOf(u.ID)
}

func (h *VendorHandler) Dashboard(c *fiber.Ctx) error {
	shop, err := h.shop(c)
	if err != nil {
		applog.Error(c, "vendor.shop.load", err, nil)
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Shop not found. Register again."})
	}
	products, err := h.Vendor.Products(shop.ID)
	if err != nil {
		applog.Error(c, "vendor.products.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	count, _ := h.Vendor.OrderCount(shop.ID)
	return render(c, "vendor_dashboard", fiber.Map{
		"Shop":       shop,
		"Products":   products,
		"OrderCount": count,
	})
}

func (h *VendorHandler) ProductForm(c *fiber.Ctx) error {
	shop, err := h.shop(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	data := fiber.Map{"Shop": shop}
	if id := c.Query("id"); id != "" {
		for _, p := range mustProducts(h, shop.ID) {
			if p.ID == id {
				data["P"] = p
				break
			}
		}
	}
	return render(c, "vendor_product_form", data)
}

func mustProducts(h *VendorHandler, shopID string) []domain.Product {
	ps, err := h.Vendor.Products(shopID)
	if err != nil {
		return nil
	}
	return ps
}

// SaveProduct handles both create and update, keyed on the posted id.
func (h *VendorHandler) SaveProduct(c *fiber.Ctx) error {
	shop, err := h.shop(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("name is required")
	}
	price, ok := validate.Price(c.FormValue("price"))
	if !ok {
		return c.Status(400).SendString("price must be a non-negative number")
	}
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("quantity")))
	if err != nil || qty < 0 {
		return c.Status(400).SendString("quantity must be a non-negative integer")
	}
	category, ok := validate.Category(c.FormValue("category"))
	if !ok {
		category = "other"
	}

	p := domain.Product{
		ID:          strings.TrimSpace(c.FormValue("id")),
		ShopID:      shop.ID,
		Name:        name,
		Description: strings.TrimSpace(c.FormValue("description")),
		Unit:        strings.TrimSpace(c.FormValue("unit")),
		Category:    category,
		Price:       price,
		Quantity:    qty,
		ImageURL:    strings.TrimSpace(c.FormValue("imageUrl")),
	}

	if p.ID == "" {
		created, err := h.Vendor.AddProduct(p)
		if err != nil {
			applog.Error(c, "vendor.product.add", err, nil)
			return c.Status(500).SendString("could not save product")
		}
		applog.Audit(c, "vendor.product.add", map[string]any{"product_id": created.ID})
	} else {
		if err := h.Vendor.UpdateProduct(p); err != nil {
			applog.Error(c, "vendor.product.update", err, map[string]any{"product_id": p.ID})
			return c.Status(500).SendString("could not save product")
		}
		applog.Audit(c, "vendor.product.update", map[string]any{"product_id": p.ID})
	}
	return c.Redirect("/vendor")
}

func (h *VendorHandler) DeleteProduct(c *fiber.Ctx) error {
	shop, err := h.shop(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid product id")
	}
	if err := h.Vendor.DeleteProduct(id, shop.ID); err != nil {
		applog.Error(c, "vendor.product.delete", err, map[string]any{"product_id": id})
		return c.Status(500).SendString("could not delete product")
	}
	applog.Audit(c, "vendor.product.delete", map[string]any{"product_id": id})
	return c.Redirect("/vendor")
}

// AdjustStock applies a +/- delta to a product's quantity.
func (h *VendorHandler) AdjustStock(c *fiber.Ctx) error {
	shop, err := h.shop(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid product id")
	}
	delta, err := strconv.Atoi(strings.TrimSpace(c.FormValue("delta")))
	if err != nil || delta == 0 {
		return c.Status(400).SendString("delta must be a non-zero integer")
	}

	newQty, err := h.Vendor.AdjustQuantity(id, shop.ID, delta)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(404).SendString("product not found")
		}
		applog.Error(c, "vendor.stock.adjust", err, map[string]any{"product_id": id})
		return c.Status(500).SendString("could not adjust stock")
	}
	applog.Audit(c, "vendor.stock.adjust", map[string]any{"product_id": id, "delta": delta, "qty": newQty})
	return c.Redirect("/vendor")
}

func (h *VendorHandler) Orders(c *fiber.Ctx) error {
	shop, err := h.shop(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	orders, err := h.Vendor.ShopOrders(shop.ID)
	if err != nil {
		applog.Error(c, "vendor.orders.load", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "vendor_orders", fiber.Map{"Shop": shop, "Orders": orders})
}

func (h *VendorHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	shop, err := h.shop(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Shop not found"})
	}
	orderID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid order id")
	}
	next := strings.ToUpper(strings.TrimSpace(c.FormValue("status")))

	if err := h.Vendor.UpdateOrderStatus(orderID, shop.ID, next); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(404).SendString("order not found")
		case errors.Is(err, services.ErrInvalidTransition):
			return c.Status(400).SendString("invalid status change")
		default:
			applog.Error(c, "vendor.order.status", err, map[string]any{"order_id": orderID})
			return c.Status(500).SendString("could not update order")
		}
	}
	applog.Audit(c, "vendor.order.status", map[string]any{"order_id": orderID, "status": next})
	return c.Redirect("/vendor/orders")
}
