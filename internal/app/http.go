package app

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/ads"
	"github.com/salemmohdmohd/directory-for-charities/internal/audit"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/credentials"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/handler"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/provider/google"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/resolver"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/token"
	"github.com/salemmohdmohd/directory-for-charities/internal/config"
	"github.com/salemmohdmohd/directory-for-charities/internal/directory"
	"github.com/salemmohdmohd/directory-for-charities/internal/middleware"
	"github.com/salemmohdmohd/directory-for-charities/internal/notifications"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userStore := users.NewPostgresStore(infra.DB)
	notifStore := notifications.NewPostgresStore(infra.DB)
	directoryStore := directory.NewPostgresStore(infra.DB)
	adStore := ads.NewPostgresStore(infra.DB)
	auditor := audit.NewPostgresRecorder(infra.DB)

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTokenTTL)
	denylist := token.NewDenylist(infra.Redis.Client)

	googleProvider, err := google.New(ctx, google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Issuer:       cfg.GoogleIssuer,
		Timeout:      cfg.OutboundTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(
		googleProvider,
		resolver.NewStoreResolver(userStore),
		credentials.NewService(userStore),
		issuer,
		denylist,
		notifStore,
	)

	userHandler := users.NewHandler(userStore, auditor)
	directoryHandler := directory.NewHandler(directoryStore, directoryStore, directoryStore, notifStore, auditor)
	adHandler := ads.NewHandler(adStore, auditor)
	notifHandler := notifications.NewHandler(notifStore)
	auditHandler := audit.NewHandler(auditor)

	authMiddleware := middleware.NewAuth(issuer, denylist, userStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	directoryHandler.RegisterPublicRoutes(public)
	adHandler.RegisterPublicRoutes(public)

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	authProtected := router.Group("/", authMiddleware.RequireAuth())
	authHandler.RegisterProtectedRoutes(authProtected)

	api := router.Group("/api")
	api.Use(authMiddleware.RequireAuth())

	userHandler.RegisterRoutes(api)
	directoryHandler.RegisterProtectedRoutes(api)
	adHandler.RegisterProtectedRoutes(api)
	notifHandler.RegisterRoutes(api)

	admin := api.Group("/", middleware.RequireRole(users.RoleAdmin))
	auditHandler.RegisterRoutes(admin)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
