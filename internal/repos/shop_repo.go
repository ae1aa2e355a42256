package repos

import (
	"github.com/jmoiron/sqlx"

	"sendr/internal/domain"
)

type ShopRepo struct{ db *sqlx.DB }

func NewShopRepo(db *sqlx.DB) *ShopRepo { return &ShopRepo{db: db} }

const shopCols = `
  id, vendor_id, name, COALESCE(address,'') AS address,
  COALESCE(pincode,'') AS pincode, lat, lng, created_at`

func (r *ShopRepo) Get(id string) (domain.Shop, error) {
	var s domain.Shop
	err := r.db.Get(&s, `SELECT `+shopCols+` FROM shops WHERE id = ?`, id)
	return s, err
}

func (r *ShopRepo) ByVendor(vendorID string) (domain.Shop, error) {
	var s domain.Shop
	err := r.db.Get(&s, `SELECT `+shopCols+` FROM shops WHERE vendor_id = ?`, vendorID)
	return s, err
}

func (r *ShopRepo) List() ([]domain.Shop, error) {
	var out []domain.Shop
	err := r.db.Select(&out, `SELECT `+shopCols+` FROM shops ORDER BY created_at DESC`)
	return out, err
}

func (r *ShopRepo) Create(s domain.Shop) error {
	_, err := r.db.Exec(`
		INSERT INTO shops(id, vendor_id, name, address, pincode, lat, lng, created_at)
		VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, s.ID, s.VendorID, s.Name, s.Address, s.Pincode, s.Lat, s.Lng)
	return err
}

// CreateTx inserts the shop inside an existing transaction (vendor
// registration creates user + shop together).
func (r *ShopRepo) CreateTx(tx *sqlx.Tx, s domain.Shop) error {
	_, err := tx.Exec(`
		INSERT INTO shops(id, vendor_id, name, address, pincode, lat, lng, created_at)
		VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, s.ID, s.VendorID, s.Name, s.Address, s.Pincode, s.Lat, s.Lng)
	return err
}
