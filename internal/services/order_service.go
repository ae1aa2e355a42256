package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sendr/internal/domain"
	"sendr/internal/repos"
)

// ItemRequest is one line of an order batch: a product and how many of
// it the customer wants.
type ItemRequest struct {
	ProductID string
	Qty       int
}

type OrderService struct {
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewOrderService(prods *repos.ProductRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Prods: prods, Orders: orders}
}

// Place validates the batch, then atomically checks stock, decrements
// quantities and records the order. Either every line item commits or
// nothing does; prices and totals come from the transactional read, not
// from whatever the client cached. Returns the new order id.
func (s *OrderService) Place(customerID, shopID string, items []ItemRequest) (string, error) {
	wants, err := validateBatch(shopID, items)
	if err != nil {
		return "", err
	}

	orderID := uuid.NewString()

	err = s.Orders.InTxn(func(tx *sqlx.Tx) error {
		total := 0.0
		lines := make([]domain.OrderItem, 0, len(wants))

		for _, it := range wants {
			p, err := s.Prods.GetTx(tx, it.ProductID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, it.ProductID)
				}
				return err
			}
			if p.ShopID != shopID {
				return fmt.Errorf("%w: product %s does not belong to shop %s", domain.ErrInvalidArgument, it.ProductID, shopID)
			}
			if p.Quantity < it.Qty {
				name := p.Name
				if name == "" {
					name = it.ProductID
				}
				return fmt.Errorf("%w: not enough stock for product %q", domain.ErrInsufficientStock, name)
			}

			if err := s.Prods.SetQuantityTx(tx, it.ProductID, p.Quantity-it.Qty); err != nil {
				return err
			}
			total += p.Price * float64(it.Qty)
			lines = append(lines, domain.OrderItem{
				OrderID:   orderID,
				ProductID: it.ProductID,
				Name:      p.Name,
				Qty:       it.Qty,
				Price:     p.Price,
			})
		}

		if err := s.Orders.CreateTx(tx, domain.Order{
			ID:         orderID,
			CustomerID: customerID,
			ShopID:     shopID,
			Total:      total,
			Status:     domain.StatusPlaced,
		}); err != nil {
			return err
		}
		for _, li := range lines {
			if err := s.Orders.InsertItemTx(tx, li); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, repos.ErrBusy):
			return "", fmt.Errorf("%w: could not place order for shop %s", domain.ErrConflict, shopID)
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrInsufficientStock),
			errors.Is(err, domain.ErrInvalidArgument):
			return "", err
		default:
			return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}
	return orderID, nil
}

// validateBatch rejects malformed input before any store access and
// pre-aggregates duplicate product lines (first-occurrence order), so a
// repeated product is stock-checked once with its combined quantity.
func validateBatch(shopID string, items []ItemRequest) ([]ItemRequest, error) {
	if strings.TrimSpace(shopID) == "" {
		return nil, fmt.Errorf("%w: shopId is required", domain.ErrInvalidArgument)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrInvalidArgument)
	}

	idx := make(map[string]int, len(items))
	wants := make([]ItemRequest, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, fmt.Errorf("%w: productId missing", domain.ErrInvalidArgument)
		}
		if it.Qty <= 0 {
			return nil, fmt.Errorf("%w: invalid qty for product %s", domain.ErrInvalidArgument, it.ProductID)
		}
		if i, ok := idx[it.ProductID]; ok {
			wants[i].Qty += it.Qty
			continue
		}
		idx[it.ProductID] = len(wants)
		wants = append(wants, it)
	}
	return wants, nil
}

// Get returns an order with its captured line items.
func (s *OrderService) Get(id string) (domain.Order, []domain.OrderItem, error) {
	return s.Orders.Get(id)
}

// History lists a customer's past orders, newest first.
func (s *OrderService) History(customerID string) ([]domain.Order, error) {
	return s.Orders.ListByCustomer(customerID)
}
