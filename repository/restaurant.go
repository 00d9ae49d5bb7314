package repository

import (
	"context"

	"mealmatch/models"
	"mealmatch/search"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(restaurant).Error
}

// Search lists restaurants matching every filter, ordered by name then id.
func (r *RestaurantRepository) Search(ctx context.Context, f search.Filter) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	err := r.db.WithContext(ctx).
		Select("id", "name", "area", "cuisine", "price_level", "halal", "image_url").
		Scopes(f.Scope).
		Find(&restaurants).Error
	return restaurants, err
}

// MenuRepository is read-only: menus are maintained outside this service.
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db}
}

// ListByRestaurant returns an empty slice for unknown restaurants.
func (r *MenuRepository) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name ASC").Order("id ASC").
		Find(&items).Error
	return items, err
}
