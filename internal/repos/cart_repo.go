package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ProductID  string  `db:"product_id"`
	ShopID     string  `db:"shop_id"`
	Name       string  `db:"name"`
	Unit       string  `db:"unit"`
	Qty        int     `db:"qty"`
	PriceAtAdd float64 `db:"price_at_add"`
	Subtotal   float64 `db:"subtotal"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r *CartRepo) UpsertItem(cartID, productID string, qty int, price float64) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,qty,price_at_add,created_at)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty, price)
	return err
}

// SetQty overwrites a line's quantity; qty <= 0 removes the line.
func (r *CartRepo) SetQty(cartID, productID string, qty int) error {
	if qty <= 0 {
		return r.RemoveItem(cartID, productID)
	}
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	return err
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	return err
}

func (r *CartRepo) Items(cartID string) ([]CartItemRow, error) {
	out := []CartItemRow{}
	err := r.db.Select(&out, `
		SELECT ci.product_id, p.shop_id, p.name, COALESCE(p.unit,'') AS unit,
		       ci.qty, ci.price_at_add, (ci.qty*ci.price_at_add) AS subtotal
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?
		ORDER BY ci.created_at
	`, cartID)
	return out, err
}

// ShopID returns the shop the cart is bound to, or "" for an empty
// cart. The single-shop invariant means all lines share one shop.
func (r *CartRepo) ShopID(cartID string) (string, error) {
	var shopID string
	err := r.db.Get(&shopID, `
		SELECT p.shop_id
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?
		LIMIT 1
	`, cartID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return shopID, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
