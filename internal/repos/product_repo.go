package repos

import (
	"github.com/jmoiron/sqlx"

	"sendr/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, shop_id, name, COALESCE(description,'') AS description,
  COALESCE(unit,'') AS unit, COALESCE(category,'') AS category,
  price, quantity, available, COALESCE(image_url,'') AS image_url,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// GetTx reads a product inside a transaction; the order placement flow
// depends on prices and quantities coming from this transactional view.
func (r *ProductRepo) GetTx(tx *sqlx.Tx, id string) (domain.Product, error) {
	var p domain.Product
	err := tx.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

// SetQuantityTx stages a quantity write and re-derives the available
// flag. Quantity must already be validated non-negative by the caller.
func (r *ProductRepo) SetQuantityTx(tx *sqlx.Tx, id string, qty int) error {
	_, err := tx.Exec(`
		UPDATE products
		SET quantity = ?, available = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, qty > 0, id)
	return err
}

func (r *ProductRepo) ListByShop(shopID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT `+productCols+` FROM products
		WHERE shop_id = ?
		ORDER BY COALESCE(updated_at, created_at) DESC
	`, shopID)
	return out, err
}

// List returns all products, newest first, optionally narrowed by a
// text query against name and description.
func (r *ProductRepo) List(q string, limit, offset int) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	args = append(args, limit, offset)

	var out []domain.Product
	err := r.db.Select(&out, `
		SELECT `+productCols+` FROM products
		WHERE `+where+`
		ORDER BY COALESCE(updated_at, created_at) DESC
		LIMIT ? OFFSET ?
	`, args...)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products(id, shop_id, name, description, unit, category, price, quantity, available, image_url, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, p.ID, p.ShopID, p.Name, p.Description, p.Unit, p.Category, p.Price, p.Quantity, p.Quantity > 0, p.ImageURL)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
		UPDATE products
		SET name = ?, description = ?, unit = ?, category = ?, price = ?,
		    quantity = ?, available = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND shop_id = ?
	`, p.Name, p.Description, p.Unit, p.Category, p.Price,
		p.Quantity, p.Quantity > 0, p.ImageURL, p.ID, p.ShopID)
	return err
}

func (r *ProductRepo) Delete(id, shopID string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ? AND shop_id = ?`, id, shopID)
	return err
}

// Qty returns the current stock for a product.
func (r *ProductRepo) Qty(id string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT quantity FROM products WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return qty, nil
}
