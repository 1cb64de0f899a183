package biz

import (
	"context"
	"errors"
	"testing"

	mealbiz "github.com/Wassit-app/backend/internal/meal/biz"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderRepo struct {
	orders map[string]*Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*Order)}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *Order) error {
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	if o, ok := f.orders[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeOrderRepo) ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*Order, int64, error) {
	var out []*Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return paginate(out, offset, limit), int64(len(out)), nil
}

func (f *fakeOrderRepo) ListByChef(ctx context.Context, chefID string, offset, limit int) ([]*Order, int64, error) {
	var out []*Order
	for _, o := range f.orders {
		if o.ChefID == chefID {
			copied := *o
			out = append(out, &copied)
		}
	}
	return paginate(out, offset, limit), int64(len(out)), nil
}

func paginate(orders []*Order, offset, limit int) []*Order {
	if offset > len(orders) {
		offset = len(orders)
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end]
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	o, ok := f.orders[id]
	if !ok {
		return errors.New("record not found")
	}
	o.Status = status
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id string) error {
	delete(f.orders, id)
	return nil
}

type fakeMealReader struct {
	meals map[string]*mealbiz.Meal
}

func (f *fakeMealReader) GetByID(ctx context.Context, id string) (*mealbiz.Meal, error) {
	if m, ok := f.meals[id]; ok {
		return m, nil
	}
	return nil, errors.New("record not found")
}

func newTestUseCase() (*OrderUseCase, *fakeOrderRepo) {
	repo := newFakeOrderRepo()
	meals := &fakeMealReader{meals: map[string]*mealbiz.Meal{
		"meal-1": {ID: "meal-1", ChefID: "chef-1", Name: "Couscous", Price: 12.5, IsAvailable: true},
		"meal-2": {ID: "meal-2", ChefID: "chef-1", Name: "Chakhchoukha", Price: 9.0, IsAvailable: false},
	}}
	return NewOrderUseCase(repo, meals), repo
}

func TestCreateOrderComputesTotal(t *testing.T) {
	uc, _ := newTestUseCase()

	order, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1",
		MealID:     "meal-1",
		Quantity:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "chef-1", order.ChefID)
	assert.Equal(t, 12.5, order.UnitPrice)
	assert.Equal(t, 37.5, order.TotalPrice)
	assert.Equal(t, "Couscous", order.MealName)
}

func TestCreateOrderUnavailableMeal(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1",
		MealID:     "meal-2",
		Quantity:   1,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOrderInvalidInput, apperrors.ExtractCode(err))
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1",
		MealID:     "meal-1",
		Quantity:   0,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOrderInvalidInput, apperrors.ExtractCode(err))
}

func TestCreateOrderUnknownMeal(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1",
		MealID:     "meal-x",
		Quantity:   1,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrMealNotFound, apperrors.ExtractCode(err))
}

func TestGetOrderVisibility(t *testing.T) {
	uc, _ := newTestUseCase()
	order, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1", MealID: "meal-1", Quantity: 1,
	})
	require.NoError(t, err)

	// 下单顾客和接单厨师都能查看
	_, err = uc.GetOrder(context.Background(), order.ID, "cust-1")
	assert.NoError(t, err)
	_, err = uc.GetOrder(context.Background(), order.ID, "chef-1")
	assert.NoError(t, err)

	// 无关用户不可见
	_, err = uc.GetOrder(context.Background(), order.ID, "stranger")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.ExtractCode(err))
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusAccepted, StatusPreparing, true},
		{StatusPreparing, StatusDelivered, true},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusAccepted, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	uc, _ := newTestUseCase()
	order, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1", MealID: "meal-1", Quantity: 1,
	})
	require.NoError(t, err)

	updated, err := uc.UpdateOrderStatus(context.Background(), order.ID, "chef-1", StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)

	// 非法跃迁被拒绝
	_, err = uc.UpdateOrderStatus(context.Background(), order.ID, "chef-1", StatusPending)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOrderInvalidInput, apperrors.ExtractCode(err))

	// 他人餐品的订单不可操作
	_, err = uc.UpdateOrderStatus(context.Background(), order.ID, "chef-2", StatusPreparing)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.ExtractCode(err))
}

func TestCancelOrder(t *testing.T) {
	uc, repo := newTestUseCase()
	order, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1", MealID: "meal-1", Quantity: 1,
	})
	require.NoError(t, err)

	require.NoError(t, uc.CancelOrder(context.Background(), order.ID, "cust-1"))
	assert.Equal(t, StatusCancelled, repo.orders[order.ID].Status)

	// 已取消的订单不能再取消
	err = uc.CancelOrder(context.Background(), order.ID, "cust-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOrderInvalidInput, apperrors.ExtractCode(err))
}

func TestDeleteOrderOwnership(t *testing.T) {
	uc, repo := newTestUseCase()
	order, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID: "cust-1", MealID: "meal-1", Quantity: 1,
	})
	require.NoError(t, err)

	err = uc.DeleteOrder(context.Background(), order.ID, "cust-2")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrForbidden, apperrors.ExtractCode(err))

	require.NoError(t, uc.DeleteOrder(context.Background(), order.ID, "cust-1"))
	assert.NotContains(t, repo.orders, order.ID)
}

func TestListOrders(t *testing.T) {
	uc, _ := newTestUseCase()
	for i := 0; i < 3; i++ {
		_, err := uc.CreateOrder(context.Background(), &CreateOrderInput{
			CustomerID: "cust-1", MealID: "meal-1", Quantity: 1,
		})
		require.NoError(t, err)
	}

	page, err := uc.ListCustomerOrders(context.Background(), "cust-1", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	chefPage, err := uc.ListChefOrders(context.Background(), "chef-1", 1, 10)
	require.NoError(t, err)
	assert.Len(t, chefPage.Orders, 3)
}
