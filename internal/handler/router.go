package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blib-backend/internal/handler/api"
	"blib-backend/internal/handler/middleware"
	"blib-backend/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	circulationHandler *api.CirculationHandler,
	catalogHandler *api.CatalogHandler,
	subscriberHandler *api.SubscriberHandler,
	librarianHandler *api.LibrarianHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, circulationHandler, catalogHandler, subscriberHandler, librarianHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	circulationHandler *api.CirculationHandler,
	catalogHandler *api.CatalogHandler,
	subscriberHandler *api.SubscriberHandler,
	librarianHandler *api.LibrarianHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup.Group("/auth"), []route{
			{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
		})

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			addRoutes(authed.Group("/titles"), []route{
				{Method: http.MethodGet, Path: "", Handler: catalogHandler.Search},
				{Method: http.MethodGet, Path: "/:titleId", Handler: catalogHandler.GetTitle},
				{Method: http.MethodGet, Path: "/:titleId/copies", Handler: catalogHandler.Copies},
			})

			addRoutes(authed.Group("/borrows"), []route{
				{Method: http.MethodPost, Path: "/:copyId/extend", Handler: circulationHandler.Extend},
			})

			addRoutes(authed.Group("/orders"), []route{
				{Method: http.MethodPost, Path: "", Handler: circulationHandler.Order},
			})

			addRoutes(authed.Group("/subscribers"), []route{
				{Method: http.MethodGet, Path: "/:id", Handler: subscriberHandler.Get},
				{Method: http.MethodPut, Path: "/:id/details", Handler: subscriberHandler.UpdateDetails},
				{Method: http.MethodGet, Path: "/:id/borrows", Handler: subscriberHandler.Borrows},
				{Method: http.MethodGet, Path: "/:id/orders", Handler: subscriberHandler.Orders},
				{Method: http.MethodGet, Path: "/:id/history", Handler: subscriberHandler.History},
			})

			staff := authed.Group("")
			staff.Use(authMiddleware.RequireLibrarian())
			{
				addRoutes(staff.Group("/borrows"), []route{
					{Method: http.MethodPost, Path: "", Handler: circulationHandler.Borrow},
					{Method: http.MethodPost, Path: "/:copyId/return", Handler: circulationHandler.Return},
				})

				addRoutes(staff.Group("/subscribers"), []route{
					{Method: http.MethodGet, Path: "", Handler: subscriberHandler.All},
					{Method: http.MethodPost, Path: "", Handler: subscriberHandler.Register},
					{Method: http.MethodPost, Path: "/:id/freeze", Handler: librarianHandler.Freeze},
					{Method: http.MethodPost, Path: "/:id/unfreeze", Handler: librarianHandler.Unfreeze},
				})

				addRoutes(staff.Group("/notices"), []route{
					{Method: http.MethodGet, Path: "", Handler: librarianHandler.Notices},
					{Method: http.MethodDelete, Path: "", Handler: librarianHandler.ClearNotices},
				})

				addRoutes(staff.Group("/reports"), []route{
					{Method: http.MethodGet, Path: "/:kind/:year/:month", Handler: librarianHandler.Report},
				})
			}
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, r.Handler)
		case http.MethodPost:
			g.POST(r.Path, r.Handler)
		case http.MethodPut:
			g.PUT(r.Path, r.Handler)
		case http.MethodPatch:
			g.PATCH(r.Path, r.Handler)
		case http.MethodDelete:
			g.DELETE(r.Path, r.Handler)
		default:
			g.Any(r.Path, r.Handler)
		}
	}
}
