package services

import (
	"database/sql"
	"errors"
	"strings"

	"sendr/internal/domain"
	"sendr/internal/geo"
	"sendr/internal/repos"
)

type CatalogService struct {
	Shops *repos.ShopRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(shops *repos.ShopRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Shops: shops, Prods: prods}
}

// Listing is a product joined with its shop and, when the caller shared
// a location, the distance to that shop.
type Listing struct {
	domain.Product
	Shop       domain.Shop
	DistanceKm float64
	HasDist    bool
}

// BrowseQuery narrows the storefront listing. Location and RadiusKm are
// optional; a zero radius disables distance filtering.
type BrowseQuery struct {
	Q        string
	Category string
	Location *geo.Point
	RadiusKm float64
	Page     int
	PageSize int
}

// Keyword fallback for products saved without an explicit category.
var categoryHints = map[string][]string{
	"fruits-veg":    {"tomato", "potato", "banana", "apple", "veg", "vegetable", "fruit"},
	"dairy-bakery":  {"milk", "bread", "cheese", "dairy", "paneer", "cream", "egg"},
	"snacks":        {"snack", "chips", "namkeen", "biscuit"},
	"beverages":     {"juice", "cola", "drink", "tea", "coffee", "soda"},
	"breakfast":     {"cereal", "instant", "breakfast", "oats", "corn"},
	"personal-care": {"soap", "shampoo", "lotion", "toothpaste", "deodorant"},
	"household":     {"detergent", "clean", "floor", "wash"},
	"pet-care":      {"dog", "cat", "pet"},
}

// Browse lists products with shop metadata, filtered by search text,
// category and delivery radius.
func (s *CatalogService) Browse(bq BrowseQuery) ([]Listing, error) {
	if bq.Page < 1 {
		bq.Page = 1
	}
	if bq.PageSize <= 0 {
		bq.PageSize = 24
	}
	offset := (bq.Page - 1) * bq.PageSize

	prods, err := s.Prods.List(strings.ToLower(bq.Q), bq.PageSize, offset)
	if err != nil {
		return nil, err
	}
	shops, err := s.Shops.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Shop, len(shops))
	for _, sh := range shops {
		byID[sh.ID] = sh
	}

	out := make([]Listing, 0, len(prods))
	for _, p := range prods {
		if bq.Category != "" && !matchesCategory(p, bq.Category) {
			continue
		}
		l := Listing{Product: p, Shop: byID[p.ShopID]}
		if bq.Location != nil {
			l.DistanceKm = geo.HaversineKm(bq.Location.Lat, bq.Location.Lng, l.Shop.Lat, l.Shop.Lng)
			l.HasDist = true
			if bq.RadiusKm > 0 && l.DistanceKm > bq.RadiusKm {
				continue
			}
		}
		out = append(out, l)
	}
	return out, nil
}

func matchesCategory(p domain.Product, category string) bool {
	if strings.EqualFold(p.Category, category) {
		return true
	}
	name := strings.ToLower(p.Name)
	for _, kw := range categoryHints[category] {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func (s *CatalogService) GetListing(productID string) (Listing, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return Listing{}, err
	}
	sh, err := s.Shops.Get(p.ShopID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Listing{}, err
	}
	return Listing{Product: p, Shop: sh}, nil
}

func (s *CatalogService) ListShops() ([]domain.Shop, error) {
	return s.Shops.List()
}

// CheckAvailability converts quantity to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *CatalogService) CheckAvailability(productID string) (domain.Availability, error) {
	qty, err := s.Prods.Qty(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}
