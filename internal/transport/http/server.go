package http

import (
	"github.com/gin-gonic/gin"

	"pdfqa/internal/bootstrap"
	"pdfqa/internal/transport/http/handler"
	"pdfqa/internal/transport/http/middleware"
)

// NewRouter serves every route at the root and again under /api.
func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS(app.Config.App.CORSOrigins))
	router.MaxMultipartMemory = 8 << 20

	checks := make(map[string]handler.HealthCheck, len(app.HealthChecks))
	for name, check := range app.HealthChecks {
		checks[name] = check
	}
	healthHandler := handler.NewHealthHandler(app.Config.App.Name, app.Config.App.Env, app.StartedAt, checks)
	documentHandler := handler.NewDocumentHandler(app.Documents, app.Config.Upload.MaxBytes)

	for _, prefix := range []string{"", "/api"} {
		group := router.Group(prefix)
		group.GET("/", healthHandler.Root)
		group.GET("/healthz", healthHandler.Check)
		group.POST("/upload", documentHandler.Upload)
		group.POST("/ask", documentHandler.Ask)
		group.GET("/documents/:id", documentHandler.GetDocument)
	}

	return router
}
