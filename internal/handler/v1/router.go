package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medisys-io/ipdflow/internal/config"
	"github.com/medisys-io/ipdflow/internal/domain"
	"github.com/medisys-io/ipdflow/internal/handler/middleware"
	"github.com/medisys-io/ipdflow/pkg/auth"
	"github.com/medisys-io/ipdflow/pkg/metrics"
	"github.com/medisys-io/ipdflow/pkg/ws"
	"go.uber.org/zap"
)

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Patient   *PatientHandler
	Ward      *WardHandler
	Admission *AdmissionHandler
	WS        *ws.Handler
}

// NewRouter wires the middleware chain and the versioned API surface.
func NewRouter(cfg *config.Config, jwtManager *auth.JWTManager, collector *metrics.Collector, h Handlers, log *zap.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	// Websocket auth rides on the origin check; browsers cannot set an
	// Authorization header on the upgrade request.
	r.GET("/ws", h.WS.Connect)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.Authenticate(jwtManager))

	patients := protected.Group("/patients")
	{
		patients.POST("",
			middleware.RequireRole(domain.RoleAdmin, domain.RoleReceptionist),
			h.Patient.Create)
		patients.GET("", h.Patient.List)
		patients.GET("/:id", h.Patient.Get)
	}

	wards := protected.Group("/wards")
	{
		wards.POST("",
			middleware.RequireRole(domain.RoleAdmin),
			h.Ward.Create)
		wards.POST("/bulk",
			middleware.RequireRole(domain.RoleAdmin),
			h.Ward.BulkImport)
		wards.GET("", h.Ward.List)
	}

	ipd := protected.Group("/ipd")
	{
		ipd.POST("/admissions",
			middleware.RequireRole(domain.RoleAdmin, domain.RoleDoctor, domain.RoleReceptionist),
			h.Admission.Admit)
		ipd.GET("/admissions/patient/:patientId", h.Admission.ListByPatient)
		ipd.POST("/admissions/:id/discharge",
			middleware.RequireRole(domain.RoleAdmin, domain.RoleDoctor),
			h.Admission.Discharge)
		ipd.POST("/admissions/:id/reports",
			middleware.RequireRole(domain.RoleDoctor, domain.RoleNurse),
			h.Admission.CreateReport)
		ipd.GET("/admissions/:id/reports", h.Admission.ListReports)
	}

	return r
}
