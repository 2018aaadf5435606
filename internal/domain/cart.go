package domain

import "time"

// Cart is the per-user mutable set of line items awaiting order placement.
// There is exactly one cart per user; lines are keyed by dish id.
type Cart struct {
	UserID        string     `json:"user_id" bson:"user_id"`
	Items         []CartItem `json:"items" bson:"items"`
	SnapshotTotal float64    `json:"snapshot_total" bson:"snapshot_total"`
	Version       int64      `json:"version" bson:"version"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

// CartItem holds a dish reference, a quantity and the canonical price that was
// resolved at the line's most recent mutation.
type CartItem struct {
	DishID        string  `json:"dish_id" bson:"dish_id"`
	Quantity      int     `json:"quantity" bson:"quantity"`
	CapturedPrice float64 `json:"captured_price" bson:"captured_price"`
}

// RecomputeSnapshotTotal rebuilds the cached total from the lines. Callers must
// invoke it after every mutation; the stored value is a cache, not a source of
// truth.
func (c *Cart) RecomputeSnapshotTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.CapturedPrice * float64(item.Quantity)
	}
	c.SnapshotTotal = total
}

// FindItem returns a pointer to the line for dishID, or nil when absent.
func (c *Cart) FindItem(dishID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].DishID == dishID {
			return &c.Items[i]
		}
	}
	return nil
}
