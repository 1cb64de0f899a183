package graphql

import (
	"context"

	mealbiz "github.com/Wassit-app/backend/internal/meal/biz"
	orderbiz "github.com/Wassit-app/backend/internal/order/biz"
	"github.com/graphql-go/graphql"
)

// MealLister is the slice of the meal domain the read-only GraphQL
// surface needs.
type MealLister interface {
	ListWithChef(ctx context.Context, filter mealbiz.ListFilter) ([]*mealbiz.MealWithChef, error)
	GetByID(ctx context.Context, id string) (*mealbiz.Meal, error)
}

// OrderLister is the slice of the order domain the GraphQL surface needs.
type OrderLister interface {
	ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*orderbiz.Order, int64, error)
}

var categoryEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "MealCategory",
	Values: graphql.EnumValueConfigMap{
		"SANDWICHES":  &graphql.EnumValueConfig{Value: string(mealbiz.CategorySandwiches)},
		"PIZZA":       &graphql.EnumValueConfig{Value: string(mealbiz.CategoryPizza)},
		"HEALTHY":     &graphql.EnumValueConfig{Value: string(mealbiz.CategoryHealthy)},
		"TRADITIONAL": &graphql.EnumValueConfig{Value: string(mealbiz.CategoryTraditional)},
		"FASTFOOD":    &graphql.EnumValueConfig{Value: string(mealbiz.CategoryFastFood)},
		"DESSERT":     &graphql.EnumValueConfig{Value: string(mealbiz.CategoryDessert)},
		"SWEETS":      &graphql.EnumValueConfig{Value: string(mealbiz.CategorySweets)},
	},
})

var chefType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Chef",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"username":       &graphql.Field{Type: graphql.String},
		"fullName":       &graphql.Field{Type: graphql.String},
		"address":        &graphql.Field{Type: graphql.String},
		"latitude":       &graphql.Field{Type: graphql.Float},
		"longitude":      &graphql.Field{Type: graphql.Float},
		"avgReviewScore": &graphql.Field{Type: graphql.Float},
		"totalReviews":   &graphql.Field{Type: graphql.Int},
	},
})

var mealType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Meal",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"chefId":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":     &graphql.Field{Type: graphql.String},
		"price":           &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"photoUrl":        &graphql.Field{Type: graphql.String},
		"category":        &graphql.Field{Type: categoryEnum},
		"preparationTime": &graphql.Field{Type: graphql.Int},
		"isAvailable":     &graphql.Field{Type: graphql.Boolean},
	},
})

var mealWithChefType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MealWithChef",
	Fields: graphql.Fields{
		"meal": &graphql.Field{Type: graphql.NewNonNull(mealType)},
		"chef": &graphql.Field{Type: graphql.NewNonNull(chefType)},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"customerId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"chefId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"mealId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"mealName":   &graphql.Field{Type: graphql.String},
		"quantity":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"unitPrice":  &graphql.Field{Type: graphql.Float},
		"totalPrice": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"status":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt":  &graphql.Field{Type: graphql.DateTime},
	},
})

// NewSchema builds the read-only query schema over meals and orders.
func NewSchema(meals MealLister, orders OrderLister) (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"meals": &graphql.Field{
				Type:        graphql.NewList(graphql.NewNonNull(mealWithChefType)),
				Description: "Available meals, optionally filtered by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: categoryEnum},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := mealbiz.ListFilter{AvailableOnly: true}
					if raw, ok := p.Args["category"].(string); ok {
						category := mealbiz.Category(raw)
						filter.Category = &category
					}
					return meals.ListWithChef(p.Context, filter)
				},
			},
			"meal": &graphql.Field{
				Type: mealType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return meals.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"orders": &graphql.Field{
				Type:        graphql.NewList(graphql.NewNonNull(orderType)),
				Description: "Orders placed by a customer, newest first",
				Args: graphql.FieldConfigArgument{
					"customerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					if limit < 1 || limit > 100 {
						limit = 20
					}
					result, _, err := orders.ListByCustomer(p.Context, p.Args["customerId"].(string), 0, limit)
					return result, err
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}
