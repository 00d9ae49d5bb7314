package service

import (
	"context"
	"strings"

	"mealmatch/apperror"
	"mealmatch/models"
	"mealmatch/repository"
	"mealmatch/search"
)

type NewRestaurant struct {
	Name       string
	Area       string
	Cuisine    string
	PriceLevel string
	Halal      bool
	ImageURL   string
}

// RestaurantService covers owner restaurant creation and the public
// restaurant and menu listings.
type RestaurantService struct {
	restaurants *repository.RestaurantRepository
	menu        *repository.MenuRepository
}

func NewRestaurantService(restaurants *repository.RestaurantRepository, menu *repository.MenuRepository) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, menu: menu}
}

// Add creates a restaurant owned by owner. The role is checked here as well
// as in the route middleware.
func (s *RestaurantService) Add(ctx context.Context, owner *models.User, in NewRestaurant) (uint, error) {
	if owner == nil {
		return 0, apperror.Auth("Not authenticated")
	}
	if owner.Role != models.RoleOwner {
		return 0, apperror.Authorization("Owner role required")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return 0, apperror.Validation("Name is required")
	}
	tier, ok := models.ParsePriceTier(in.PriceLevel)
	if !ok {
		return 0, apperror.Validation("Price level must be ¥, ¥¥ or ¥¥¥")
	}

	restaurant := &models.Restaurant{
		OwnerID:    owner.ID,
		Name:       name,
		Area:       strings.TrimSpace(in.Area),
		Cuisine:    strings.TrimSpace(in.Cuisine),
		PriceLevel: tier,
		Halal:      in.Halal,
	}
	if img := strings.TrimSpace(in.ImageURL); img != "" {
		restaurant.ImageURL = &img
	}

	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return 0, apperror.Internal("create restaurant", err)
	}
	logger.Info().Uint("restaurant_id", restaurant.ID).Uint("owner_id", owner.ID).Msg("restaurant created")
	return restaurant.ID, nil
}

func (s *RestaurantService) List(ctx context.Context, f search.Filter) ([]models.Restaurant, error) {
	restaurants, err := s.restaurants.Search(ctx, f)
	if err != nil {
		return nil, apperror.Internal("search restaurants", err)
	}
	return restaurants, nil
}

func (s *RestaurantService) Menu(ctx context.Context, restaurantID uint) ([]models.MenuItem, error) {
	items, err := s.menu.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, apperror.Internal("list menu", err)
	}
	return items, nil
}
