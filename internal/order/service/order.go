package service

import (
	"strconv"

	"github.com/Wassit-app/backend/internal/auth/middleware"
	"github.com/Wassit-app/backend/internal/order/biz"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/Wassit-app/backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderService 订单接口
type OrderService struct {
	uc  *biz.OrderUseCase
	log *logger.Logger
}

func NewOrderService(uc *biz.OrderUseCase, log *logger.Logger) *OrderService {
	return &OrderService{uc: uc, log: log}
}

type CreateOrderRequest struct {
	MealID   string `json:"mealId" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,gte=1"`
	Notes    string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder 顾客下单
func (s *OrderService) CreateOrder(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := s.uc.CreateOrder(c.Request.Context(), &biz.CreateOrderInput{
		CustomerID: customerID,
		MealID:     req.MealID,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
	})
	if err != nil {
		s.log.Warn("failed to create order",
			zap.String("customer_id", customerID),
			zap.String("meal_id", req.MealID),
			zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Created(c, "Order placed successfully", order)
}

// GetOrder 查询订单详情（下单顾客或接单厨师可见）
func (s *OrderService) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	order, err := s.uc.GetOrder(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, order)
}

// ListMyOrders 顾客订单列表
func (s *OrderService) ListMyOrders(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	result, err := s.uc.ListCustomerOrders(c.Request.Context(), customerID, queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

// ListChefOrders 厨师订单列表
func (s *OrderService) ListChefOrders(c *gin.Context) {
	chefID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	result, err := s.uc.ListChefOrders(c.Request.Context(), chefID, queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateOrderStatus 厨师推进订单状态
func (s *OrderService) UpdateOrderStatus(c *gin.Context) {
	chefID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	status, err := biz.ParseStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := s.uc.UpdateOrderStatus(c.Request.Context(), c.Param("id"), chefID, status)
	if err != nil {
		s.log.Warn("failed to update order status",
			zap.String("order_id", c.Param("id")),
			zap.String("status", string(status)),
			zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Order status updated", order)
}

// CancelOrder 顾客取消待处理订单
func (s *OrderService) CancelOrder(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	if err := s.uc.CancelOrder(c.Request.Context(), c.Param("id"), customerID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Order cancelled", nil)
}

// DeleteOrder 顾客删除自己的订单记录
func (s *OrderService) DeleteOrder(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	if err := s.uc.DeleteOrder(c.Request.Context(), c.Param("id"), customerID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Order deleted successfully", nil)
}

// RegisterCustomerRoutes 注册顾客端订单路由
func (s *OrderService) RegisterCustomerRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", s.CreateOrder)
		orders.GET("", s.ListMyOrders)
		orders.GET("/:id", s.GetOrder)
		orders.POST("/:id/cancel", s.CancelOrder)
		orders.DELETE("/:id", s.DeleteOrder)
	}
}

// RegisterChefRoutes 注册厨师端订单路由
func (s *OrderService) RegisterChefRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.GET("", s.ListChefOrders)
		orders.GET("/:id", s.GetOrder)
		orders.PUT("/:id/status", s.UpdateOrderStatus)
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
