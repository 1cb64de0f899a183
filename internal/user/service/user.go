package service

import (
	"github.com/Wassit-app/backend/internal/auth/middleware"
	"github.com/Wassit-app/backend/internal/pkg/geo"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/Wassit-app/backend/internal/pkg/response"
	"github.com/Wassit-app/backend/internal/user/biz"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileService struct {
	uc  *biz.ProfileUseCase
	log *logger.Logger
}

func NewProfileService(uc *biz.ProfileUseCase, log *logger.Logger) *ProfileService {
	return &ProfileService{uc: uc, log: log}
}

type UpdateProfileRequest struct {
	Username        *string  `json:"username" binding:"omitempty,min=1"`
	FullName        *string  `json:"fullName" binding:"omitempty,min=1"`
	Phone           *string  `json:"phone"`
	Password        *string  `json:"password" binding:"omitempty,min=6"`
	DeliveryAddress *string  `json:"deliveryAddress"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"isVerified"`
}

type CustomerResponse struct {
	ID              string   `json:"id"`
	DeliveryAddress string   `json:"deliveryAddress"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

type ChefResponse struct {
	ID             string   `json:"id"`
	Address        string   `json:"address"`
	Bio            string   `json:"bio,omitempty"`
	Certification  string   `json:"certification,omitempty"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AvgReviewScore float64  `json:"avgReviewScore"`
	TotalReviews   int      `json:"totalReviews"`
}

func (s *ProfileService) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	user, customer, err := s.uc.GetCustomerProfile(c.Request.Context(), userID)
	if err != nil {
		s.log.Warn("failed to get profile", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Get Profile Success", gin.H{
		"user":     toUserResponse(user),
		"customer": toCustomerResponse(customer),
	})
}

// GetChefProfile 查询当前厨师的账号与厨师档案
func (s *ProfileService) GetChefProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	user, chef, err := s.uc.GetChefProfile(c.Request.Context(), userID)
	if err != nil {
		s.log.Warn("failed to get chef profile", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Get Profile Success", gin.H{
		"user": toUserResponse(user),
		"chef": toChefResponse(chef),
	})
}

func (s *ProfileService) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	update := &biz.ProfileUpdate{
		Username:        req.Username,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Password:        req.Password,
		DeliveryAddress: req.DeliveryAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}

	user, customer, err := s.uc.UpdateCustomerProfile(c.Request.Context(), userID, update)
	if err != nil {
		s.log.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "User and customer profile updated successfully", gin.H{
		"user":     toUserResponse(user),
		"customer": toCustomerResponse(customer),
	})
}

func (s *ProfileService) UpdateLocation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "missing user identity")
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	coord := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	customer, err := s.uc.UpdateCustomerLocation(c.Request.Context(), userID, coord)
	if err != nil {
		s.log.Error("failed to update location", zap.String("user_id", userID), zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Customer location updated successfully", gin.H{
		"latitude":  customer.Latitude,
		"longitude": customer.Longitude,
	})
}

func toUserResponse(user *biz.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Email:      user.Email,
		Phone:      user.Phone,
		Role:       user.Role.String(),
		IsVerified: user.IsVerified,
	}
}

func toCustomerResponse(customer *biz.CustomerProfile) *CustomerResponse {
	return &CustomerResponse{
		ID:              customer.ID,
		DeliveryAddress: customer.DeliveryAddress,
		Latitude:        customer.Latitude,
		Longitude:       customer.Longitude,
	}
}

func toChefResponse(chef *biz.ChefProfile) *ChefResponse {
	return &ChefResponse{
		ID:             chef.ID,
		Address:        chef.Address,
		Bio:            chef.Bio,
		Certification:  chef.Certification,
		Latitude:       chef.Latitude,
		Longitude:      chef.Longitude,
		AvgReviewScore: chef.AvgReviewScore,
		TotalReviews:   chef.TotalReviews,
	}
}

// RegisterRoutes 注册顾客端档案路由
func (s *ProfileService) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	{
		profile.GET("", s.GetProfile)
		profile.PUT("", s.UpdateProfile)
		profile.PUT("/location", s.UpdateLocation)
	}
}

// RegisterChefRoutes 注册厨师端档案路由
func (s *ProfileService) RegisterChefRoutes(r *gin.RouterGroup) {
	r.GET("/profile", s.GetChefProfile)
}
