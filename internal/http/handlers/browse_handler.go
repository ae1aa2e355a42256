package handlers

import (
	"github.com/gofiber/fiber/v2"

	"sendr/internal/geo"
	applog "sendr/internal/log"
	"sendr/internal/services"
	"sendr/internal/validate"
)

type BrowseHandler struct {
	Catalog *services.CatalogService
}

// Home renders the storefront: products near the customer, filtered by
// category, search text and delivery radius. Location comes from query
// params the client fills in after geolocation.
func (h *BrowseHandler) Home(c *fiber.Ctx) error {
	bq := services.BrowseQuery{Page: c.QueryInt("page", 1), PageSize: 24}

	if q := c.Query("q"); q != "" {
		qq, ok := validate.Q(q)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q"})
			return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Invalid search"})
		}
		bq.Q = qq
	}
	if cat := c.Query("category"); cat != "" {
		cc, ok := validate.Category(cat)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("notfound", fiber.Map{"Message": "Unknown category"})
		}
		bq.Category = cc
	}
	lat, okLat := validate.Coord(c.Query("lat"))
	lng, okLng := validate.Coord(c.Query("lng"))
	if okLat && okLng {
		bq.Location = &geo.Point{Lat: lat, Lng: lng}
		bq.RadiusKm = float64(c.QueryInt("radius", 5))
	}

	listings, err := h.Catalog.Browse(bq)
	if err != nil {
		applog.Error(c, "browse.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "home", fiber.Map{
		"Listings": listings,
		"Query":    bq.Q,
		"Category": bq.Category,
	})
}

func (h *BrowseHandler) Shops(c *fiber.Ctx) error {
	shops, err := h.Catalog.ListShops()
	if err != nil {
		applog.Error(c, "shops.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load shops"})
	}
	return render(c, "shops", fiber.Map{"Shops": shops})
}
