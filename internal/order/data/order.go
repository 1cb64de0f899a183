package data

import (
	"context"
	"time"

	"github.com/Wassit-app/backend/internal/order/biz"
	"gorm.io/gorm"
)

// OrderPO 订单持久化对象
type OrderPO struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	CustomerID string  `gorm:"type:uuid;not null;index"`
	ChefID     string  `gorm:"type:uuid;not null;index"`
	MealID     string  `gorm:"type:uuid;not null"`
	MealName   string  `gorm:"size:255;not null"`
	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"type:numeric(10,2);not null"`
	TotalPrice float64 `gorm:"type:numeric(10,2);not null"`
	Status     string  `gorm:"size:16;not null;index"`
	Notes      string  `gorm:"type:text"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderRepo implements biz.OrderRepo over the orders table.
type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) biz.OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Create(ctx context.Context, order *biz.Order) error {
	return r.db.WithContext(ctx).Create(toOrderPO(order)).Error
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*biz.Order, error) {
	var po OrderPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}
	return toOrder(&po), nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string, offset, limit int) ([]*biz.Order, int64, error) {
	return r.list(ctx, "customer_id = ?", customerID, offset, limit)
}

func (r *OrderRepo) ListByChef(ctx context.Context, chefID string, offset, limit int) ([]*biz.Order, int64, error) {
	return r.list(ctx, "chef_id = ?", chefID, offset, limit)
}

func (r *OrderRepo) list(ctx context.Context, cond, arg string, offset, limit int) ([]*biz.Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&OrderPO{}).Where(cond, arg)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pos []OrderPO
	err := base.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*biz.Order, 0, len(pos))
	for i := range pos {
		orders = append(orders, toOrder(&pos[i]))
	}
	return orders, total, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status biz.Status) error {
	return r.db.WithContext(ctx).
		Model(&OrderPO{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&OrderPO{}).Error
}

func toOrderPO(order *biz.Order) *OrderPO {
	return &OrderPO{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		ChefID:     order.ChefID,
		MealID:     order.MealID,
		MealName:   order.MealName,
		Quantity:   order.Quantity,
		UnitPrice:  order.UnitPrice,
		TotalPrice: order.TotalPrice,
		Status:     string(order.Status),
		Notes:      order.Notes,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}

func toOrder(po *OrderPO) *biz.Order {
	return &biz.Order{
		ID:         po.ID,
		CustomerID: po.CustomerID,
		ChefID:     po.ChefID,
		MealID:     po.MealID,
		MealName:   po.MealName,
		Quantity:   po.Quantity,
		UnitPrice:  po.UnitPrice,
		TotalPrice: po.TotalPrice,
		Status:     biz.Status(po.Status),
		Notes:      po.Notes,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}
