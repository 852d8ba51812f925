package cart

// MaxQuantity caps the units of one product a cart line may hold.
const MaxQuantity = 999

// Item is one cart row. A user holds at most one Item per product and
// Quantity never drops below 1.
type Item struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"qty"`
}
