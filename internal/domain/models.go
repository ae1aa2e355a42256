package domain

type Shop struct {
	ID        string  `db:"id"`
	VendorID  string  `db:"vendor_id"`
	Name      string  `db:"name"`
	Address   string  `db:"address"`
	Pincode   string  `db:"pincode"`
	Lat       float64 `db:"lat"`
	Lng       float64 `db:"lng"`
	CreatedAt string  `db:"created_at"`
}

type Product struct {
	ID          string  `db:"id"`
	ShopID      string  `db:"shop_id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Unit        string  `db:"unit"` // display unit, e.g. "1 kg", "500 ml"
	Category    string  `db:"category"`
	Price       float64 `db:"price"`
	Quantity    int     `db:"quantity"`
	Available   bool    `db:"available"`
	ImageURL    string  `db:"image_url"`
	CreatedAt   string  `db:"created_at"`
	UpdatedAt   string  `db:"updated_at"`
}

// InStock reports whether the product can be added to a cart.
// The available flag is re-derived from quantity at every write.
func (p Product) InStock() bool {
	return p.Available && p.Quantity > 0
}

type Order struct {
	ID         string  `db:"id"`
	CustomerID string  `db:"customer_id"`
	ShopID     string  `db:"shop_id"`
	Total      float64 `db:"total"`
	Status     string  `db:"status"`
	CreatedAt  string  `db:"created_at"`
}

// OrderItem captures the product name and unit price as read inside the
// placement transaction; later product edits never rewrite order history.
type OrderItem struct {
	OrderID   string  `db:"order_id"`
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
}

// Order statuses. An order is created as PLACED atomically with its
// stock decrements; later transitions are vendor actions.
const (
	StatusPlaced    = "PLACED"
	StatusAccepted  = "ACCEPTED"
	StatusDelivered = "DELIVERED"
	StatusCanceled  = "CANCELED"
)

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
