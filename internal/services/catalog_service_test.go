package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sendr/internal/geo"
	"sendr/internal/repos"
	"sendr/internal/services"
)

func TestCatalogService_BrowseSearch(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "P1", "S1", "Fresh Tomatoes - 1 kg", 60, 10)
	seedProduct(t, db, "P2", "S1", "Nandini Milk 500 ml", 24, 30)
	svc := services.NewCatalogService(repos.NewShopRepo(db), repos.NewProductRepo(db))

	ls, err := svc.Browse(services.BrowseQuery{Q: "milk"})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	require.Equal(t, "P2", ls[0].ID)
	require.Equal(t, "Fresh Mart", ls[0].Shop.Name)
}

// Products saved without a category still match via name keywords,
// like the storefront's heuristic filter.
func TestCatalogService_CategoryHeuristic(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "P1", "S1", "Fresh Tomatoes - 1 kg", 60, 10) // no category column set
	seedProduct(t, db, "P2", "S1", "Nandini Milk 500 ml", 24, 30)
	svc := services.NewCatalogService(repos.NewShopRepo(db), repos.NewProductRepo(db))

	ls, err := svc.Browse(services.BrowseQuery{Category: "fruits-veg"})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	require.Equal(t, "P1", ls[0].ID)

	ls, err = svc.Browse(services.BrowseQuery{Category: "dairy-bakery"})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	require.Equal(t, "P2", ls[0].ID)
}

func TestCatalogService_RadiusFilter(t *testing.T) {
	db := memdb(t)
	// S1 sits at 12.9716,77.5946 (memdb). Add a far-away shop.
	_, err := db.Exec(`INSERT INTO shops(id,vendor_id,name,lat,lng) VALUES ('S2','v2','Far Store',13.20,77.90)`)
	require.NoError(t, err)
	seedProduct(t, db, "P1", "S1", "Tomatoes", 60, 10)
	seedProduct(t, db, "P2", "S2", "Onions", 40, 10)
	svc := services.NewCatalogService(repos.NewShopRepo(db), repos.NewProductRepo(db))

	near := &geo.Point{Lat: 12.9716, Lng: 77.5946}
	ls, err := svc.Browse(services.BrowseQuery{Location: near, RadiusKm: 5})
	require.NoError(t, err)
	require.Len(t, ls, 1)
	require.Equal(t, "P1", ls[0].ID)
	require.True(t, ls[0].HasDist)
	require.Less(t, ls[0].DistanceKm, 1.0)

	// no radius: everything listed, with distances attached
	ls, err = svc.Browse(services.BrowseQuery{Location: near})
	require.NoError(t, err)
	require.Len(t, ls, 2)
}

func TestCatalogService_CheckAvailability(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "P1", "S1", "Tomatoes", 60, 6)
	seedProduct(t, db, "P2", "S1", "Onions", 40, 2)
	seedProduct(t, db, "P3", "S1", "Bread", 45, 0)
	svc := services.NewCatalogService(repos.NewShopRepo(db), repos.NewProductRepo(db))

	a, err := svc.CheckAvailability("P1")
	require.NoError(t, err)
	require.Equal(t, "IN_STOCK", a.Status)
	require.Equal(t, 6, a.Qty)

	a, err = svc.CheckAvailability("P2")
	require.NoError(t, err)
	require.Equal(t, "LOW_STOCK", a.Status)

	a, err = svc.CheckAvailability("P3")
	require.NoError(t, err)
	require.Equal(t, "OUT_OF_STOCK", a.Status)

	// unknown product is reported as out of stock, not an error
	a, err = svc.CheckAvailability("ghost")
	require.NoError(t, err)
	require.Equal(t, "OUT_OF_STOCK", a.Status)
}

func TestCatalogService_GetListing(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "P1", "S1", "Tomatoes", 60, 10)
	svc := services.NewCatalogService(repos.NewShopRepo(db), repos.NewProductRepo(db))

	l, err := svc.GetListing("P1")
	require.NoError(t, err)
	require.Equal(t, "Tomatoes", l.Name)
	require.Equal(t, "Fresh Mart", l.Shop.Name)

	_, err = svc.GetListing("ghost")
	require.Error(t, err)
}
