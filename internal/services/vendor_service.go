package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"sendr/internal/domain"
	"sendr/internal/repos"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

var allowedTransitions = map[string]map[string]bool{
	domain.StatusPlaced:    {domain.StatusAccepted: true, domain.StatusCanceled: true},
	domain.StatusAccepted:  {domain.StatusDelivered: true, domain.StatusCanceled: true},
	domain.StatusDelivered: {},
	domain.StatusCanceled:  {},
}

// VendorService covers the vendor dashboard: registration (user + shop
// in one transaction), product CRUD, stock adjustments and order
// status updates.
type VendorService struct {
	Users  *repos.UserRepo
	Shops  *repos.ShopRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
}

func NewVendorService(users *repos.UserRepo, shops *repos.ShopRepo, prods *repos.ProductRepo, orders *repos.OrderRepo) *VendorService {
	return &VendorService{Users: users, Shops: shops, Prods: prods, Orders: orders}
}

type VendorRegistration struct {
	Name     string
	ShopName string
	Email    string
	Phone    string
	Password string
	Address  string
	Pincode  string
	Lat      float64
	Lng      float64
}

// Register creates the vendor account and its shop together.
func (s *VendorService) Register(reg VendorRegistration) (*domain.User, domain.Shop, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), 12)
	if err != nil {
		return nil, domain.Shop{}, err
	}

	u := domain.User{
		ID:    uuid.NewString(),
		Email: reg.Email,
		Name:  reg.Name,
		Phone: reg.Phone,
		Hash:  string(hash),
		Role:  domain.RoleVendor,
	}
	shop := domain.Shop{
		ID:       uuid.NewString(),
		VendorID: u.ID,
		Name:     reg.ShopName,
		Address:  reg.Address,
		Pincode:  reg.Pincode,
		Lat:      reg.Lat,
		Lng:      reg.Lng,
	}

	err = repos.InTxn(s.Users.DB, func(tx *sqlx.Tx) error {
		if err := s.Users.CreateTx(tx, u); err != nil {
			return err
		}
		return s.Shops.CreateTx(tx, shop)
	})
	if err != nil {
		return nil, domain.Shop{}, err
	}
	return &u, shop, nil
}

func (s *VendorService) ShopOf(vendorID string) (domain.Shop, error) {
	return s.Shops.ByVendor(vendorID)
}

func (s *VendorService) Products(shopID string) ([]domain.Product, error) {
	return s.Prods.ListByShop(shopID)
}

func (s *VendorService) AddProduct(p domain.Product) (domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Available = p.Quantity > 0
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *VendorService) UpdateProduct(p domain.Product) error {
	p.Available = p.Quantity > 0
	return s.Prods.Update(p)
}

func (s *VendorService) DeleteProduct(productID, shopID string) error {
	return s.Prods.Delete(productID, shopID)
}

// AdjustQuantity applies a relative stock change (restock or manual
// correction) atomically, clamping at zero and re-deriving the
// available flag. Races with order placement are resolved by the
// transaction runner's retry.
func (s *VendorService) AdjustQuantity(productID, shopID string, delta int) (int, error) {
	var newQty int
	err := s.Orders.InTxn(func(tx *sqlx.Tx) error {
		p, err := s.Prods.GetTx(tx, productID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, productID)
			}
			return err
		}
		if p.ShopID != shopID {
			return fmt.Errorf("%w: product %s not found", domain.ErrNotFound, productID)
		}
		newQty = p.Quantity + delta
		if newQty < 0 {
			newQty = 0
		}
		return s.Prods.SetQuantityTx(tx, productID, newQty)
	})
	if err != nil {
		if errors.Is(err, repos.ErrBusy) {
			return 0, fmt.Errorf("%w: could not adjust stock for %s", domain.ErrConflict, productID)
		}
		return 0, err
	}
	return newQty, nil
}

func (s *VendorService) ShopOrders(shopID string) ([]domain.Order, error) {
	return s.Orders.ListByShop(shopID)
}

func (s *VendorService) OrderCount(shopID string) (int, error) {
	return s.Orders.CountByShop(shopID)
}

// UpdateOrderStatus moves an order along PLACED -> ACCEPTED ->
// DELIVERED, or to CANCELED from any non-terminal state. The order
// must belong to the vendor's shop. Check and update run in one
// transaction so concurrent vendor actions see committed state.
func (s *VendorService) UpdateOrderStatus(orderID, shopID, next string) error {
	err := s.Orders.InTxn(func(tx *sqlx.Tx) error {
		o, err := s.Orders.HeaderTx(tx, orderID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: order %s not found", domain.ErrNotFound, orderID)
			}
			return err
		}
		if o.ShopID != shopID {
			return fmt.Errorf("%w: order %s not found", domain.ErrNotFound, orderID)
		}
		if !allowedTransitions[o.Status][next] {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
		}
		return s.Orders.UpdateStatusTx(tx, orderID, next)
	})
	if err != nil && errors.Is(err, repos.ErrBusy) {
		return fmt.Errorf("%w: could not update order %s", domain.ErrConflict, orderID)
	}
	return err
}
