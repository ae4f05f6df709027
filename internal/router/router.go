// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/config"
	"github.com/javajoker/commodity-admin/internal/database"
	"github.com/javajoker/commodity-admin/internal/handlers"
	"github.com/javajoker/commodity-admin/internal/middleware"
	"github.com/javajoker/commodity-admin/internal/services"
)

const version = "1.0.0"

// Dependencies are the long-lived services the routes share.
type Dependencies struct {
	Workspaces    *services.WorkspaceStore
	Auth          *services.AuthService
	Brands        *services.BrandService
	AuditRecorder database.AuditRecorder
	// AuditReader is nil when no database is configured.
	AuditReader database.AuditReader
	// Optional limiters; nil disables limiting for the route.
	LoginLimiter  *middleware.RateLimiter
	UploadLimiter *middleware.RateLimiter
}

func limit(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Middleware()
}

func Initialize(cfg *config.Config, deps Dependencies) *gin.Engine {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Auth, cfg.Session)
	viewHandler := handlers.NewViewHandler()
	productHandler := handlers.NewProductHandler()
	draftHandler := handlers.NewDraftHandler()
	categoryHandler := handlers.NewCategoryHandler()
	brandHandler := handlers.NewBrandHandler(deps.Brands)
	uploadHandler := handlers.NewUploadHandler(cfg.Upload.MaxBytes)
	auditHandler := handlers.NewAuditHandler(deps.AuditReader)
	pageHandler := handlers.NewPageHandler()

	recorder := deps.AuditRecorder
	if recorder == nil {
		recorder = database.LogRecorder{}
	}

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.SessionGate(cfg.Session))
	r.Use(middleware.AuditLogMiddleware(recorder))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"version":    version,
			"workspaces": deps.Workspaces.Len(),
		})
	})

	// Catalog edge rewrite
	if cfg.Catalog.Origin != "" {
		proxy, err := NewCatalogProxy(cfg.Catalog.Origin)
		if err != nil {
			logrus.WithError(err).Warn("Catalog proxy disabled")
		} else {
			r.Any("/api/*path", proxy)
		}
	}

	// Pages
	pages := r.Group("")
	pages.Use(middleware.OptionalSession(cfg.Session.CookieName))
	{
		pages.GET("/login", pageHandler.Login)
		pages.GET("/", pageHandler.Dashboard)
		pages.GET("/product/:slug", pageHandler.Product)
	}

	requireSession := middleware.AuthRequired(deps.Workspaces, cfg.Session.CookieName)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", limit(deps.LoginLimiter), authHandler.Login)
			auth.POST("/logout", middleware.OptionalSession(cfg.Session.CookieName), authHandler.Logout)
		}

		protected := v1.Group("")
		protected.Use(requireSession)
		{
			protected.GET("/menu", viewHandler.GetMenu)
			protected.GET("/view", viewHandler.GetView)
			protected.PUT("/view", viewHandler.SetView)

			products := protected.Group("/products")
			{
				products.GET("", productHandler.GetProducts)
				products.GET("/state", productHandler.GetState)
				products.POST("/refresh", productHandler.Refresh)
				products.PUT("/page", productHandler.SetPage)
				products.PUT("/page-size", productHandler.SetPageSize)
				products.PUT("/sort", productHandler.Sort)
				products.DELETE("/:id", productHandler.DeleteProduct)
				products.DELETE("", productHandler.DeleteAll)
			}

			drafts := protected.Group("/drafts")
			{
				drafts.POST("", draftHandler.CreateDraft)
				drafts.POST("/edit/:slug", draftHandler.EditDraft)
				drafts.GET("/:id", draftHandler.GetDraft)
				drafts.PATCH("/:id", draftHandler.UpdateFields)
				drafts.DELETE("/:id", draftHandler.DiscardDraft)
				drafts.POST("/:id/variants", draftHandler.AddVariant)
				drafts.PATCH("/:id/variants/:index", draftHandler.UpdateVariant)
				drafts.DELETE("/:id/variants/:index", draftHandler.RemoveVariant)
				drafts.PUT("/:id/category", draftHandler.SelectCategory)
				drafts.PUT("/:id/brand", draftHandler.SetBrand)
				drafts.POST("/:id/submit", draftHandler.Submit)
			}

			categories := protected.Group("/categories")
			{
				categories.GET("/:level", categoryHandler.GetCategories)
				categories.POST("/:level", categoryHandler.CreateCategory)
				categories.PUT("/:level/:id/enabled", categoryHandler.SetEnabled)
				categories.PUT("/:level/:id/parent", categoryHandler.SetParent)
				categories.DELETE("/:level/:id", categoryHandler.DeleteCategory)
			}
			protected.PUT("/category-picker", categoryHandler.SelectCreateParents)

			brands := protected.Group("/brands")
			{
				brands.GET("", brandHandler.GetBrands)
				brands.POST("", brandHandler.CreateBrand)
			}

			uploads := protected.Group("/uploads")
			{
				uploads.GET("", uploadHandler.GetUpload)
				uploads.POST("", limit(deps.UploadLimiter), uploadHandler.StageFile)
				uploads.DELETE("", uploadHandler.ClearFile)
				uploads.POST("/submit", limit(deps.UploadLimiter), uploadHandler.Submit)
			}

			protected.GET("/audit-logs", auditHandler.GetAuditLogs)
		}
	}

	return r
}
