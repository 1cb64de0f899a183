package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	mealbiz "github.com/Wassit-app/backend/internal/meal/biz"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/google/uuid"
)

// Status is an order lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusPreparing Status = "PREPARING"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus parses a status string case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusPreparing:
		return StatusPreparing, nil
	case StatusDelivered:
		return StatusDelivered, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown order status: %q", s)
	}
}

// transitions lists the allowed status moves. Terminal states have none.
var transitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order is a customer's purchase of a meal quantity from a chef.
// UnitPrice is captured at order time so later meal price edits do not
// rewrite history.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	ChefID     string    `json:"chefId"`
	MealID     string    `json:"mealId"`
	MealName   string    `json:"mealName"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unitPrice"`
	TotalPrice float64   `json:"totalPrice"`
	Status     Status    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OrderRepo defines the interface for order data operations.
type OrderRepo interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*Order, int64, error)
	ListByChef(ctx context.Context, chefID string, offset, limit int) ([]*Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

// MealReader is the slice of the meal domain the order flow needs.
type MealReader interface {
	GetByID(ctx context.Context, id string) (*mealbiz.Meal, error)
}

// OrderPage is a page of orders.
type OrderPage struct {
	Orders     []*Order           `json:"orders"`
	Pagination mealbiz.Pagination `json:"pagination"`
}

// OrderUseCase contains business logic for order operations.
type OrderUseCase struct {
	repo  OrderRepo
	meals MealReader
}

func NewOrderUseCase(repo OrderRepo, meals MealReader) *OrderUseCase {
	return &OrderUseCase{repo: repo, meals: meals}
}

// CreateOrderInput carries the fields of a new order.
type CreateOrderInput struct {
	CustomerID string
	MealID     string
	Quantity   int
	Notes      string
}

// CreateOrder places a new order in PENDING state. The total is the
// meal's current price times the quantity.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input *CreateOrderInput) (*Order, error) {
	if input.Quantity < 1 {
		return nil, apperrors.New(apperrors.ErrOrderInvalidInput, "quantity must be at least 1")
	}

	meal, err := uc.meals.GetByID(ctx, input.MealID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMealNotFound)
	}
	if !meal.IsAvailable {
		return nil, apperrors.New(apperrors.ErrOrderInvalidInput, "meal is not available")
	}

	now := time.Now()
	order := &Order{
		ID:         uuid.Must(uuid.NewV7()).String(),
		CustomerID: input.CustomerID,
		ChefID:     meal.ChefID,
		MealID:     meal.ID,
		MealName:   meal.Name,
		Quantity:   input.Quantity,
		UnitPrice:  meal.Price,
		TotalPrice: meal.Price * float64(input.Quantity),
		Status:     StatusPending,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return order, nil
}

// GetOrder returns an order visible to the given user (its customer or chef).
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrOrderNotFound)
	}
	if order.CustomerID != userID && order.ChefID != userID {
		return nil, apperrors.New(apperrors.ErrForbidden, "order does not belong to the current user")
	}
	return order, nil
}

// ListCustomerOrders returns a page of the customer's orders, newest first.
func (uc *OrderUseCase) ListCustomerOrders(ctx context.Context, customerID string, page, limit int) (*OrderPage, error) {
	page, limit = clampPage(page, limit)
	orders, total, err := uc.repo.ListByCustomer(ctx, customerID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return newOrderPage(orders, page, limit, total), nil
}

// ListChefOrders returns a page of orders placed with the chef, newest first.
func (uc *OrderUseCase) ListChefOrders(ctx context.Context, chefID string, page, limit int) (*OrderPage, error) {
	page, limit = clampPage(page, limit)
	orders, total, err := uc.repo.ListByChef(ctx, chefID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return newOrderPage(orders, page, limit, total), nil
}

// UpdateOrderStatus moves an order along its lifecycle. Only the chef
// side changes status; cancellation from PENDING is also open to the
// customer via CancelOrder.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, orderID, chefID string, status Status) (*Order, error) {
	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrOrderNotFound)
	}
	if order.ChefID != chefID {
		return nil, apperrors.New(apperrors.ErrForbidden, "order does not belong to the current chef")
	}
	if !CanTransition(order.Status, status) {
		return nil, apperrors.New(apperrors.ErrOrderInvalidInput,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := uc.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	order.Status = status
	return order, nil
}

// CancelOrder lets a customer withdraw an order that is still PENDING.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, orderID, customerID string) error {
	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrOrderNotFound)
	}
	if order.CustomerID != customerID {
		return apperrors.New(apperrors.ErrForbidden, "order does not belong to the current customer")
	}
	if order.Status != StatusPending {
		return apperrors.New(apperrors.ErrOrderInvalidInput, "only pending orders can be cancelled")
	}
	if err := uc.repo.UpdateStatus(ctx, orderID, StatusCancelled); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return nil
}

// DeleteOrder removes a customer's own order record.
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, orderID, customerID string) error {
	order, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrOrderNotFound)
	}
	if order.CustomerID != customerID {
		return apperrors.New(apperrors.ErrForbidden, "order does not belong to the current customer")
	}
	if err := uc.repo.Delete(ctx, orderID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}

func newOrderPage(orders []*Order, page, limit int, total int64) *OrderPage {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &OrderPage{
		Orders: orders,
		Pagination: mealbiz.Pagination{
			Page:       page,
			PageSize:   limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
