package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revportal/internal/config"
	"revportal/internal/handler"
	"revportal/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health      *handler.HealthHandler
	Config      *handler.TaxConfigHandler
	Tax         *handler.TaxHandler
	Installment *handler.InstallmentHandler
	Entity      *handler.EntityHandler
	Report      *handler.ReportHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(log *zap.Logger, corsCfg config.CORSConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(corsCfg))

	r.NoRoute(func(c *gin.Context) {
		handler.RespondError(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handler.RespondError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	configs := v1.Group("/configs")
	configs.GET("/:kind", h.Config.List)
	configs.POST("/:kind", h.Config.Create)
	configs.PUT("/:kind", h.Config.Update)
	configs.PATCH("/:kind", h.Config.Expire)
	configs.DELETE("/:kind", h.Config.Delete)

	tax := v1.Group("/tax")
	tax.GET("/calculate", h.Tax.Calculate)
	tax.POST("/quarters", h.Tax.GenerateQuarters)
	tax.POST("/penalties/accrue", h.Tax.AccruePenalties)

	installments := v1.Group("/installments")
	installments.GET("", h.Installment.List)
	installments.POST("/:id/pay", h.Installment.Pay)

	entities := v1.Group("/entities")
	entities.POST("", h.Entity.Register)
	entities.GET("", h.Entity.List)
	entities.GET("/:id", h.Entity.Get)
	entities.POST("/:id/approve", h.Entity.Approve)
	entities.POST("/:id/reject", h.Entity.Reject)

	dashboard := v1.Group("/dashboard")
	dashboard.GET("/summary", h.Report.Summary)
	dashboard.GET("/quarters", h.Report.Quarters)
	dashboard.GET("/locations", h.Report.Locations)
	dashboard.GET("/classifications", h.Report.Classifications)
	dashboard.GET("/overdue", h.Report.Overdue)
	dashboard.GET("/top-payers", h.Report.TopPayers)
	dashboard.GET("/export", h.Report.Export)

	return r
}
