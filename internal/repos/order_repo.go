package repos

import (
	"github.com/jmoiron/sqlx"

	"sendr/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// InTxn exposes the retrying transaction runner to the order service,
// which owns the placement algorithm.
func (r *OrderRepo) InTxn(fn func(tx *sqlx.Tx) error) error {
	return InTxn(r.db, fn)
}

// CreateTx stages the order header inside the placement transaction.
// created_at is assigned by the database at commit time.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o domain.Order) error {
	_, err := tx.Exec(`
		INSERT INTO orders(id, customer_id, shop_id, total, status, created_at)
		VALUES(?, NULLIF(?,''), ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.ID, o.CustomerID, o.ShopID, o.Total, o.Status)
	return err
}

func (r *OrderRepo) InsertItemTx(tx *sqlx.Tx, it domain.OrderItem) error {
	_, err := tx.Exec(`
		INSERT INTO order_items(order_id, product_id, name, qty, price)
		VALUES(?,?,?,?,?)
	`, it.OrderID, it.ProductID, it.Name, it.Qty, it.Price)
	return err
}

// ---------- Reads (confirmation page, history, vendor dashboard) ----------

func (r *OrderRepo) Get(id string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, COALESCE(customer_id,'') AS customer_id, shop_id, total, status, created_at
		FROM orders WHERE id = ?
	`, id); err != nil {
		return domain.Order{}, nil, err
	}

	var items []domain.OrderItem
	if err := r.db.Select(&items, `
		SELECT order_id, product_id, name, qty, price
		FROM order_items WHERE order_id = ?
		ORDER BY name
	`, id); err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) ListByShop(shopID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, COALESCE(customer_id,'') AS customer_id, shop_id, total, status, created_at
		FROM orders
		WHERE shop_id = ?
		ORDER BY datetime(created_at) DESC
	`, shopID)
	return out, err
}

func (r *OrderRepo) ListByCustomer(customerID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, COALESCE(customer_id,'') AS customer_id, shop_id, total, status, created_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY datetime(created_at) DESC
	`, customerID)
	return out, err
}

func (r *OrderRepo) CountByShop(shopID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE shop_id = ?`, shopID)
	return n, err
}

// HeaderTx reads the order header inside a transaction, for the status
// state machine's check-then-update.
func (r *OrderRepo) HeaderTx(tx *sqlx.Tx, id string) (domain.Order, error) {
	var o domain.Order
	err := tx.Get(&o, `
		SELECT id, COALESCE(customer_id,'') AS customer_id, shop_id, total, status, created_at
		FROM orders WHERE id = ?
	`, id)
	return o, err
}

func (r *OrderRepo) UpdateStatusTx(tx *sqlx.Tx, id, status string) error {
	_, err := tx.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
