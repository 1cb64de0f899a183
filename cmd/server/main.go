package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wassit-app/backend/internal/auth"
	authbiz "github.com/Wassit-app/backend/internal/auth/biz"
	authdata "github.com/Wassit-app/backend/internal/auth/data"
	authservice "github.com/Wassit-app/backend/internal/auth/service"
	"github.com/Wassit-app/backend/internal/conf"
	"github.com/Wassit-app/backend/internal/data"
	emailservice "github.com/Wassit-app/backend/internal/email/service"
	emailtypes "github.com/Wassit-app/backend/internal/email/types"
	gql "github.com/Wassit-app/backend/internal/graphql"
	mealbiz "github.com/Wassit-app/backend/internal/meal/biz"
	mealdata "github.com/Wassit-app/backend/internal/meal/data"
	mealservice "github.com/Wassit-app/backend/internal/meal/service"
	orderbiz "github.com/Wassit-app/backend/internal/order/biz"
	orderdata "github.com/Wassit-app/backend/internal/order/data"
	orderservice "github.com/Wassit-app/backend/internal/order/service"
	"github.com/Wassit-app/backend/internal/pkg/cache"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/Wassit-app/backend/internal/pkg/oauth2"
	"github.com/Wassit-app/backend/internal/server"
	userbiz "github.com/Wassit-app/backend/internal/user/biz"
	userdata "github.com/Wassit-app/backend/internal/user/data"
	userservice "github.com/Wassit-app/backend/internal/user/service"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

// googleExchanger adapts the OAuth2 helper to the auth use case.
type googleExchanger struct {
	authenticator *oauth2.GoogleAuthenticator
}

func (g *googleExchanger) AuthURL(state string) string {
	return g.authenticator.AuthURL(state)
}

func (g *googleExchanger) Exchange(ctx context.Context, code string) (*authbiz.OAuthUserInfo, error) {
	info, err := g.authenticator.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return &authbiz.OAuthUserInfo{ID: info.ID, Email: info.Email, Name: info.Name}, nil
}

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("config loaded successfully")

	// Initialize data layer
	d, cleanup, err := data.NewData(config, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// Shared infrastructure
	jwtManager := auth.NewJWTManager(config.Auth.JWTSecret, config.Auth.JWTIssuer)
	hasher := auth.NewBcryptHasher()
	cacheStore := cache.NewRedisStore(d.RedisClient)

	mailer, err := emailservice.NewEmailService(&emailtypes.EmailConfig{
		Host:     config.SMTP.Host,
		Port:     config.SMTP.Port,
		Username: config.SMTP.Username,
		Password: config.SMTP.Password,
		FromAddr: config.SMTP.FromAddr,
		FromName: config.SMTP.FromName,
	})
	if err != nil {
		log.Fatal("failed to initialize email service", zap.Error(err))
	}

	googleAuth, err := oauth2.NewGoogleAuthenticator(&oauth2.Config{
		ClientID:     config.OAuth.GoogleClientID,
		ClientSecret: config.OAuth.GoogleClientSecret,
		RedirectURL:  config.OAuth.GoogleRedirectURL,
	})
	if err != nil {
		log.Fatal("failed to initialize google oauth", zap.Error(err))
	}

	// Initialize repositories
	authRepo := authdata.NewAuthRepo(d.DB)
	profileRepo := userdata.NewProfileRepo(d.DB)
	mealRepo := mealdata.NewMealRepo(d.DB)
	orderRepo := orderdata.NewOrderRepo(d.DB)

	// Initialize use cases
	authUseCase := authbiz.NewAuthUseCase(authRepo, hasher, jwtManager, mailer, &googleExchanger{authenticator: googleAuth}, log)
	profileUseCase := userbiz.NewProfileUseCase(profileRepo, hasher)
	mealUseCase := mealbiz.NewMealUseCase(mealRepo, cacheStore, config.Search.CacheTTL, log)
	searchUseCase := mealbiz.NewSearchUseCase(mealRepo, cacheStore, config.Search.CacheTTL, log)
	orderUseCase := orderbiz.NewOrderUseCase(orderRepo, mealRepo)

	// GraphQL schema over the same repositories
	schema, err := gql.NewSchema(mealRepo, orderRepo)
	if err != nil {
		log.Fatal("failed to build graphql schema", zap.Error(err))
	}

	// Initialize services
	services := &server.Services{
		Auth:    authservice.NewAuthService(authUseCase, log),
		Profile: userservice.NewProfileService(profileUseCase, log),
		Meal:    mealservice.NewMealService(mealUseCase, log),
		Search:  mealservice.NewSearchService(searchUseCase, log),
		Order:   orderservice.NewOrderService(orderUseCase, log),
		GraphQL: gql.NewHandler(schema, log),
	}

	httpServer := server.NewHTTPServer(config, log, jwtManager, d.RedisClient, services)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
