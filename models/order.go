package models

import "time"

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

type Order struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"-" gorm:"not null;index"`
	User      User        `json:"-" gorm:"foreignKey:UserID"`
	Status    OrderStatus `json:"status" gorm:"size:32;not null;default:'pending'"`
	Items     []OrderItem `json:"-" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem has no association to MenuItem: the price is a snapshot taken at
// order time and must not follow later menu changes.
type OrderItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"order_id" gorm:"not null;index"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	Price      float64 `json:"price" gorm:"not null"`
}

// All lists every model for migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Restaurant{},
		&MenuItem{},
		&Order{},
		&OrderItem{},
	}
}
