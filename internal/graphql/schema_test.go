package graphql

import (
	"context"
	"errors"
	"testing"

	mealbiz "github.com/Wassit-app/backend/internal/meal/biz"
	orderbiz "github.com/Wassit-app/backend/internal/order/biz"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMeals struct {
	items []*mealbiz.MealWithChef
}

func (s *stubMeals) ListWithChef(ctx context.Context, filter mealbiz.ListFilter) ([]*mealbiz.MealWithChef, error) {
	var out []*mealbiz.MealWithChef
	for _, mc := range s.items {
		if filter.Category != nil && mc.Meal.Category != *filter.Category {
			continue
		}
		out = append(out, mc)
	}
	return out, nil
}

func (s *stubMeals) GetByID(ctx context.Context, id string) (*mealbiz.Meal, error) {
	for _, mc := range s.items {
		if mc.Meal.ID == id {
			m := mc.Meal
			return &m, nil
		}
	}
	return nil, errors.New("record not found")
}

type stubOrders struct {
	items []*orderbiz.Order
}

func (s *stubOrders) ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*orderbiz.Order, int64, error) {
	var out []*orderbiz.Order
	for _, o := range s.items {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, int64(len(out)), nil
}

func testSchema(t *testing.T) graphql.Schema {
	t.Helper()
	meals := &stubMeals{items: []*mealbiz.MealWithChef{
		{
			Meal: mealbiz.Meal{ID: "meal-1", ChefID: "chef-1", Name: "Couscous", Price: 12.5, Category: mealbiz.CategoryTraditional, IsAvailable: true},
			Chef: mealbiz.ChefInfo{ID: "chef-1", Username: "karim"},
		},
		{
			Meal: mealbiz.Meal{ID: "meal-2", ChefID: "chef-2", Name: "Margherita", Price: 9, Category: mealbiz.CategoryPizza, IsAvailable: true},
			Chef: mealbiz.ChefInfo{ID: "chef-2", Username: "sara"},
		},
	}}
	orders := &stubOrders{items: []*orderbiz.Order{
		{ID: "order-1", CustomerID: "cust-1", ChefID: "chef-1", MealID: "meal-1", Quantity: 2, TotalPrice: 25, Status: orderbiz.StatusPending},
	}}

	schema, err := NewSchema(meals, orders)
	require.NoError(t, err)
	return schema
}

func TestQueryMeals(t *testing.T) {
	schema := testSchema(t)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ meals { meal { id name price } chef { username } } }`,
		Context:       context.Background(),
	})
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]interface{})
	meals := data["meals"].([]interface{})
	assert.Len(t, meals, 2)
}

func TestQueryMealsByCategory(t *testing.T) {
	schema := testSchema(t)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ meals(category: PIZZA) { meal { id } } }`,
		Context:       context.Background(),
	})
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]interface{})
	meals := data["meals"].([]interface{})
	require.Len(t, meals, 1)
}

func TestQueryOrders(t *testing.T) {
	schema := testSchema(t)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ orders(customerId: "cust-1") { id quantity totalPrice status } }`,
		Context:       context.Background(),
	})
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]interface{})
	orders := data["orders"].([]interface{})
	require.Len(t, orders, 1)

	first := orders[0].(map[string]interface{})
	assert.Equal(t, "PENDING", first["status"])
}

func TestQueryUnknownMeal(t *testing.T) {
	schema := testSchema(t)

	result := graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: `{ meal(id: "missing") { id } }`,
		Context:       context.Background(),
	})
	// 错误进入 errors 数组，而非 panic
	assert.NotEmpty(t, result.Errors)
}
