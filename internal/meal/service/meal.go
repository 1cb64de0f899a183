package service

import (
	"strconv"

	"github.com/Wassit-app/backend/internal/auth/middleware"
	"github.com/Wassit-app/backend/internal/meal/biz"
	"github.com/Wassit-app/backend/internal/pkg/geo"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/Wassit-app/backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MealService 厨师餐品管理接口
type MealService struct {
	uc  *biz.MealUseCase
	log *logger.Logger
}

func NewMealService(uc *biz.MealUseCase, log *logger.Logger) *MealService {
	return &MealService{uc: uc, log: log}
}

type CreateMealRequest struct {
	Name            string  `json:"name" binding:"required,min=1,max=255"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	PhotoURL        string  `json:"photoUrl" binding:"omitempty,url"`
	Category        string  `json:"category" binding:"required"`
	PreparationTime int     `json:"preparationTime" binding:"omitempty,gte=0"`
	IsAvailable     *bool   `json:"isAvailable"`
}

type UpdateMealRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price" binding:"omitempty,gt=0"`
	PhotoURL        *string  `json:"photoUrl" binding:"omitempty,url"`
	Category        *string  `json:"category"`
	PreparationTime *int     `json:"preparationTime" binding:"omitempty,gte=0"`
	IsAvailable     *bool    `json:"isAvailable"`
}

// CreateMeal 创建餐品
func (s *MealService) CreateMeal(c *gin.Context) {
	chefID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := biz.ParseCategory(req.Category)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	meal, err := s.uc.CreateMeal(c.Request.Context(), &biz.CreateMealInput{
		ChefID:          chefID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		PhotoURL:        req.PhotoURL,
		Category:        category,
		PreparationTime: req.PreparationTime,
		IsAvailable:     available,
	})
	if err != nil {
		s.log.Error("failed to create meal", zap.String("chef_id", chefID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Created(c, "Meal created successfully", meal)
}

// ListMyMeals 查询当前厨师的餐品列表
func (s *MealService) ListMyMeals(c *gin.Context) {
	chefID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	result, err := s.uc.ListChefMeals(c.Request.Context(), chefID, page, limit)
	if err != nil {
		s.log.Warn("failed to list chef meals", zap.String("chef_id", chefID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, result)
}

// ListChefMeals 查询指定厨师的餐品列表（顾客端）
func (s *MealService) ListChefMeals(c *gin.Context) {
	chefID := c.Param("chefId")

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	result, err := s.uc.ListChefMeals(c.Request.Context(), chefID, page, limit)
	if err != nil {
		s.log.Warn("failed to list chef meals", zap.String("chef_id", chefID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, result)
}

// GetMeal 查询餐品详情
func (s *MealService) GetMeal(c *gin.Context) {
	meal, err := s.uc.GetMeal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, meal)
}

// GetMealDetails 查询餐品详情（顾客端），可带请求者坐标计算与厨师的距离
func (s *MealService) GetMealDetails(c *gin.Context) {
	var origin *geo.Coordinate
	latRaw, lonRaw := c.Query("latitude"), c.Query("longitude")
	if latRaw != "" || lonRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lon, lonErr := strconv.ParseFloat(lonRaw, 64)
		if latErr != nil || lonErr != nil {
			response.BadRequest(c, "latitude and longitude must both be numbers")
			return
		}
		origin = &geo.Coordinate{Latitude: lat, Longitude: lon}
	}

	details, err := s.uc.GetMealDetails(c.Request.Context(), c.Param("id"), origin)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, details)
}

// UpdateMeal 更新餐品
func (s *MealService) UpdateMeal(c *gin.Context) {
	chefID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	mealID := c.Param("id")

	var req UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input := &biz.UpdateMealInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		PhotoURL:        req.PhotoURL,
		PreparationTime: req.PreparationTime,
		IsAvailable:     req.IsAvailable,
	}
	if req.Category != nil {
		category, err := biz.ParseCategory(*req.Category)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		input.Category = &category
	}

	if err := s.ensureOwnership(c, mealID, chefID); err != nil {
		return
	}

	meal, err := s.uc.UpdateMeal(c.Request.Context(), mealID, input)
	if err != nil {
		s.log.Error("failed to update meal", zap.String("meal_id", mealID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Meal updated successfully", meal)
}

// DeleteMeal 删除餐品
func (s *MealService) DeleteMeal(c *gin.Context) {
	chefID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	mealID := c.Param("id")
	if err := s.ensureOwnership(c, mealID, chefID); err != nil {
		return
	}

	if err := s.uc.DeleteMeal(c.Request.Context(), mealID); err != nil {
		s.log.Error("failed to delete meal", zap.String("meal_id", mealID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Meal deleted successfully", nil)
}

// ensureOwnership 校验餐品归属，防止厨师操作他人餐品。
// 失败时已写入响应，调用方直接返回即可。
func (s *MealService) ensureOwnership(c *gin.Context, mealID, chefID string) error {
	meal, err := s.uc.GetMeal(c.Request.Context(), mealID)
	if err != nil {
		response.HandleError(c, err)
		return err
	}
	if meal.ChefID != chefID {
		response.Forbidden(c, "meal does not belong to the current chef")
		return errForbidden
	}
	return nil
}

// RegisterChefRoutes 注册厨师端餐品路由
func (s *MealService) RegisterChefRoutes(r *gin.RouterGroup) {
	meals := r.Group("/meals")
	{
		meals.POST("", s.CreateMeal)
		meals.GET("", s.ListMyMeals)
		meals.GET("/:id", s.GetMeal)
		meals.PUT("/:id", s.UpdateMeal)
		meals.DELETE("/:id", s.DeleteMeal)
	}
}

// RegisterCustomerRoutes 注册顾客端餐品路由
func (s *MealService) RegisterCustomerRoutes(r *gin.RouterGroup) {
	meals := r.Group("/meals")
	{
		meals.GET("/chef/:chefId", s.ListChefMeals)
		meals.GET("/:id", s.GetMealDetails)
	}
}
