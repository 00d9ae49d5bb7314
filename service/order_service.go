package service

import (
	"context"

	"mealmatch/apperror"
	"mealmatch/events"
	"mealmatch/models"
	"mealmatch/repository"
)

// OrderLine is a requested line. A zero MenuItemID never matches a menu item;
// a Quantity below 1 is treated as 1.
type OrderLine struct {
	MenuItemID uint
	Quantity   int
}

type OrderRequest struct {
	RestaurantID uint
	Items        []OrderLine
}

type OrderResult struct {
	OrderID uint
	Dropped int
}

type OrderService struct {
	orders    *repository.OrderRepository
	publisher events.Publisher
}

func NewOrderService(orders *repository.OrderRepository, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{orders: orders, publisher: publisher}
}

func (s *OrderService) List(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("list orders", err)
	}
	return orders, nil
}

// Create places a pending order for userID. Lines naming unknown menu items
// are dropped and counted in the result. The restaurant id is carried into
// the published event only.
func (s *OrderService) Create(ctx context.Context, userID uint, req OrderRequest) (*OrderResult, error) {
	if len(req.Items) == 0 {
		return nil, apperror.Validation("Order must contain at least one item")
	}

	lines := make([]repository.LineRequest, 0, len(req.Items))
	for _, item := range req.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, repository.LineRequest{MenuItemID: item.MenuItemID, Quantity: qty})
	}

	order, dropped, err := s.orders.Create(ctx, userID, lines)
	if err != nil {
		logger.Error().Err(err).Uint("user_id", userID).Msg("Error creating order")
		return nil, apperror.Internal("create order", err)
	}
	if dropped > 0 {
		logger.Warn().Uint("order_id", order.ID).Int("dropped", dropped).Msg("order lines referenced unknown menu items")
	}

	s.publishCreated(ctx, order, req.RestaurantID, dropped)
	return &OrderResult{OrderID: order.ID, Dropped: dropped}, nil
}

// publishCreated runs after commit, so a failure is logged and not returned.
func (s *OrderService) publishCreated(ctx context.Context, order *models.Order, restaurantID uint, dropped int) {
	ev := events.OrderEvent{
		Type:         events.OrderCreated,
		OrderID:      order.ID,
		UserID:       order.UserID,
		RestaurantID: restaurantID,
		Lines:        make([]events.OrderLine, 0, len(order.Items)),
		Dropped:      dropped,
		CreatedAt:    order.CreatedAt,
	}
	for _, it := range order.Items {
		ev.Lines = append(ev.Lines, events.OrderLine{MenuItemID: it.MenuItemID, Quantity: it.Quantity, Price: it.Price})
	}
	if err := s.publisher.PublishOrder(ctx, ev); err != nil {
		logger.Error().Err(err).Uint("order_id", order.ID).Msg("Error publishing order event")
	}
}
