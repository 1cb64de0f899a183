package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Wassit-app/backend/internal/auth"
	"github.com/Wassit-app/backend/internal/auth/middleware"
	authservice "github.com/Wassit-app/backend/internal/auth/service"
	"github.com/Wassit-app/backend/internal/conf"
	gqlhandler "github.com/Wassit-app/backend/internal/graphql"
	mealservice "github.com/Wassit-app/backend/internal/meal/service"
	orderservice "github.com/Wassit-app/backend/internal/order/service"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	userservice "github.com/Wassit-app/backend/internal/user/service"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services bundles the HTTP-facing services the router mounts.
type Services struct {
	Auth    *authservice.AuthService
	Profile *userservice.ProfileService
	Meal    *mealservice.MealService
	Search  *mealservice.SearchService
	Order   *orderservice.OrderService
	GraphQL *gqlhandler.Handler
}

type HTTPServer struct {
	server *http.Server
	log    *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	jwtManager *auth.JWTManager,
	redisClient *redis.Client,
	services *Services,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	accessLog := log.With(zap.String("component", "http"))
	router.Use(logger.GinRecovery(accessLog))
	router.Use(logger.GinLogger(accessLog))
	router.Use(middleware.CORS())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api/v1")

	// 公开路由：注册登录等，带限流
	services.Auth.RegisterRoutes(api,
		middleware.LoginRateLimiter(redisClient, log),
		middleware.RegisterRateLimiter(redisClient, log),
	)

	authRequired := middleware.JWTAuth(jwtManager, log)

	// 顾客端路由
	customer := api.Group("/customer", authRequired, middleware.RequireRole(auth.RoleCustomer))
	{
		services.Profile.RegisterRoutes(customer)
		services.Search.RegisterRoutes(customer, middleware.SearchRateLimiter(redisClient, log))
		services.Meal.RegisterCustomerRoutes(customer)
		services.Order.RegisterCustomerRoutes(customer)
	}

	// 厨师端路由
	chef := api.Group("/chef", authRequired, middleware.RequireRole(auth.RoleChef))
	{
		services.Profile.RegisterChefRoutes(chef)
		services.Meal.RegisterChefRoutes(chef)
		services.Order.RegisterChefRoutes(chef)
	}

	// GraphQL 查询面，登录即可访问
	gql := api.Group("", authRequired)
	services.GraphQL.RegisterRoutes(gql)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		log: log,
	}
}

func (s *HTTPServer) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.log.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
