package repository

import (
	"context"
	"time"

	"mealmatch/models"

	"gorm.io/gorm"
)

// LineRequest is one requested order line after input coercion.
type LineRequest struct {
	MenuItemID uint
	Quantity   int
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db}
}

// ListByUser returns the user's orders, newest (highest id) first, without
// their lines.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Select("id", "status", "created_at").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// Create inserts a pending order and one line per request whose menu item
// exists, all in one transaction. Lines for unknown menu items are dropped and
// counted, never reported as errors. The order row is created even when every
// line is dropped.
func (r *OrderRepository) Create(ctx context.Context, userID uint, lines []LineRequest) (*models.Order, int, error) {
	order := models.Order{
		UserID:    userID,
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	var dropped int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Items").Create(&order).Error; err != nil {
			return err
		}

		items, n, err := resolveLines(tx, order.ID, lines)
		if err != nil {
			return err
		}
		dropped = n
		if len(items) == 0 {
			return nil
		}

		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &order, dropped, nil
}

// resolveLines snapshots the current price of each referenced menu item and
// splits the request into surviving lines and a dropped count.
func resolveLines(tx *gorm.DB, orderID uint, lines []LineRequest) ([]models.OrderItem, int, error) {
	ids := make([]uint, 0, len(lines))
	seen := map[uint]bool{}
	for _, l := range lines {
		if l.MenuItemID != 0 && !seen[l.MenuItemID] {
			seen[l.MenuItemID] = true
			ids = append(ids, l.MenuItemID)
		}
	}

	prices := map[uint]float64{}
	if len(ids) > 0 {
		var menuItems []models.MenuItem
		if err := tx.Select("id", "price").Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
			return nil, 0, err
		}
		for _, m := range menuItems {
			prices[m.ID] = m.Price
		}
	}

	items := make([]models.OrderItem, 0, len(lines))
	dropped := 0
	for _, l := range lines {
		price, ok := prices[l.MenuItemID]
		if !ok {
			dropped++
			continue
		}
		items = append(items, models.OrderItem{
			OrderID:    orderID,
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Price:      price,
		})
	}
	return items, dropped, nil
}
