package services

import (
	"database/sql"
	"errors"
	"fmt"

	"sendr/internal/domain"
	"sendr/internal/repos"
)

// CartService keeps a per-session cart server-side. The cart is an
// unvalidated wishlist: stock is only re-checked at order placement.
// The one rule enforced here is that a cart holds products of a single
// shop.
type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

func (s *CartService) Add(sessionID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, productID)
		}
		return err
	}

	cur, err := s.Carts.ShopID(cartID)
	if err != nil {
		return err
	}
	if cur != "" && cur != p.ShopID {
		return fmt.Errorf("%w: cart holds items from another shop", domain.ErrShopMismatch)
	}

	return s.Carts.UpsertItem(cartID, productID, qty, p.Price)
}

func (s *CartService) SetQty(sessionID, productID string, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.SetQty(cartID, productID, qty)
}

func (s *CartService) Remove(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID)
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

type CartView struct {
	Items  []repos.CartItemRow
	ShopID string
	Total  float64
	Count  int
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	cv := CartView{Items: items}
	for _, it := range items {
		cv.Total += it.Subtotal
		cv.Count += it.Qty
		cv.ShopID = it.ShopID
	}
	return cv, nil
}
