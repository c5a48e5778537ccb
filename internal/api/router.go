package api

import (
	"parking_reservation/internal/api/handler"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	roleAdmin     = "admin"
	roleManager   = "manager"
	roleAttendant = "attendant"
)

// Services agrupa as dependências do roteador. LPR é opcional.
type Services struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Directory *service.DirectoryService
	Catalog   *service.CatalogService
	Engine    *service.ReservationService
	Maps      *service.MapService
	Reports   *service.ReportService
	LPR       *service.LPRService
}

func SetupRouter(svc Services, wsManager *handler.WebSocketManager, loginLimiter *middleware.RateLimiter, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	if wsManager != nil {
		r.GET("/ws", handler.NewWebSocketHandler(wsManager).HandleWebSocket)
	}

	authHandler := handler.NewAuthHandler(svc.Auth)
	r.POST("/auth/login", loginLimiter.Limit(), authHandler.Login)

	authMw := middleware.NewAuthMiddleware(svc.Auth)
	staff := authMw.AuthorizeRole(roleAdmin, roleManager, roleAttendant)
	managers := authMw.AuthorizeRole(roleAdmin, roleManager)

	v1 := r.Group("/api/v1")
	v1.Use(authMw.Authenticate())
	{
		userH := handler.NewUserHandler(svc.Users)
		users := v1.Group("/users", authMw.AuthorizeRole(roleAdmin))
		{
			users.POST("", userH.Create)
			users.GET("", userH.List)
			users.GET("/:id", userH.Get)
			users.PUT("/:id", userH.Update)
			users.DELETE("/:id", userH.Delete)
		}

		clientH := handler.NewClientHandler(svc.Directory)
		clients := v1.Group("/clients", staff)
		{
			clients.POST("", clientH.Create)
			clients.GET("", clientH.List)
			clients.GET("/:id", clientH.Get)
			clients.GET("/:id/vehicles", clientH.Vehicles)
			clients.PUT("/:id", clientH.Update)
			clients.DELETE("/:id", managers, clientH.Delete)
		}

		vehicleH := handler.NewVehicleHandler(svc.Directory)
		vehicles := v1.Group("/vehicles", staff)
		{
			vehicles.POST("", vehicleH.Create)
			vehicles.GET("", vehicleH.List)
			vehicles.GET("/:id", vehicleH.Get)
			vehicles.PUT("/:id", vehicleH.Update)
			vehicles.DELETE("/:id", managers, vehicleH.Delete)
		}

		blockH := handler.NewBlockHandler(svc.Catalog)
		blocks := v1.Group("/blocks", staff)
		{
			blocks.GET("", blockH.List)
			blocks.GET("/:id", blockH.Get)
			blocks.POST("", managers, blockH.Create)
			blocks.PUT("/:id", managers, blockH.Update)
			blocks.DELETE("/:id", managers, blockH.Delete)
		}
		v1.GET("/spots", staff, blockH.Spots)

		resH := handler.NewReservationHandler(svc.Engine)
		reservations := v1.Group("/reservations", staff)
		{
			reservations.POST("", resH.Create)
			reservations.GET("/:id", resH.Get)
			reservations.POST("/:id/occupy", resH.Occupy)
			reservations.POST("/:id/cancel", resH.Cancel)
			reservations.POST("/:id/finalize", resH.Finalize)
			reservations.DELETE("/:id", managers, resH.Delete)
		}

		mapH := handler.NewMapHandler(svc.Maps, svc.Engine)
		v1.GET("/map", staff, mapH.Project)
		v1.GET("/map/summary", staff, mapH.Summary)

		reportH := handler.NewReportHandler(svc.Reports)
		v1.GET("/reports", managers, reportH.Query)

		if svc.LPR != nil {
			lprH := handler.NewLPRHandler(svc.LPR)
			v1.POST("/lpr/lookup", staff, lprH.Lookup)
		}
	}
	return r
}
