package service

import (
	"errors"
	"strconv"

	"github.com/Wassit-app/backend/internal/meal/biz"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/Wassit-app/backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errForbidden = errors.New("forbidden")

// SearchService 基于位置的餐品搜索接口
type SearchService struct {
	uc  *biz.SearchUseCase
	log *logger.Logger
}

func NewSearchService(uc *biz.SearchUseCase, log *logger.Logger) *SearchService {
	return &SearchService{uc: uc, log: log}
}

// SearchByLocation 按经纬度搜索附近可售餐品
func (s *SearchService) SearchByLocation(c *gin.Context) {
	latitude, ok := queryFloat(c, "latitude")
	if !ok {
		response.BadRequest(c, "latitude is required and must be a number")
		return
	}
	longitude, ok := queryFloat(c, "longitude")
	if !ok {
		response.BadRequest(c, "longitude is required and must be a number")
		return
	}

	// Unset fields stay zero; the use case fills defaults and rejects
	// out-of-range values.
	query := biz.SearchQuery{
		Latitude:  latitude,
		Longitude: longitude,
	}

	if raw := c.Query("radiusKm"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "radiusKm must be a number")
			return
		}
		query.RadiusKm = radius
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "page must be an integer")
			return
		}
		query.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "limit must be an integer")
			return
		}
		query.Limit = limit
	}

	if raw := c.Query("category"); raw != "" {
		category, err := biz.ParseCategory(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		query.Category = &category
	}

	if raw := c.Query("minPrice"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "minPrice must be a number")
			return
		}
		query.MinPrice = &minPrice
	}
	if raw := c.Query("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(c, "maxPrice must be a number")
			return
		}
		query.MaxPrice = &maxPrice
	}

	result, err := s.uc.SearchByLocation(c.Request.Context(), query)
	if err != nil {
		s.log.Warn("meal search failed",
			zap.Float64("latitude", latitude),
			zap.Float64("longitude", longitude),
			zap.Error(err))
		response.HandleError(c, err)
		return
	}

	response.Success(c, result)
}

// RegisterRoutes 注册搜索路由，限流在路由层挂载
func (s *SearchService) RegisterRoutes(r *gin.RouterGroup, limiter gin.HandlerFunc) {
	r.GET("/meals/search", limiter, s.SearchByLocation)
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

func queryFloat(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
