package handlers

import (
	"github.com/jmoiron/sqlx"

	"sendr/internal/repos"
	"sendr/internal/services"
)

type Deps struct {
	BrowseHandler  *BrowseHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	VendorHandler  *VendorHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	shopRepo := repos.NewShopRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	catalogSvc := services.NewCatalogService(shopRepo, prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(prodRepo, orderRepo)
	vendorSvc := services.NewVendorService(auth.Users, shopRepo, prodRepo, orderRepo)

	return &Deps{
		BrowseHandler:  &BrowseHandler{Catalog: catalogSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Cart: cartSvc, Order: orderSvc, Auth: auth},
		VendorHandler:  &VendorHandler{Vendor: vendorSvc, Auth: auth},
	}
}
