package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	httpH "github.com/yungbote/workspace-backend/internal/http/handlers"
	httpMW "github.com/yungbote/workspace-backend/internal/http/middleware"
	"github.com/yungbote/workspace-backend/internal/observability"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

// Catalog lists the collections to expose and their repositories.
type Catalog interface {
	Collections() []string
	Lookup(collection string) (*aggregates.Repository, bool)
}

type RouterConfig struct {
	Log         *logger.Logger
	Catalog     Catalog
	Metrics     *observability.Metrics
	Health      *httpH.HealthHandler
	Events      *httpH.EventsHandler
	CORSOrigins []string
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestData())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	health := cfg.Health
	if health == nil {
		health = httpH.NewHealthHandler(nil)
	}
	r.GET("/healthcheck", health.HealthCheck)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	if cfg.Catalog == nil {
		return r
	}
	api := r.Group("/api")
	if cfg.Events != nil {
		api.GET("/events", cfg.Events.Stream)
	}
	for _, collection := range cfg.Catalog.Collections() {
		repo, ok := cfg.Catalog.Lookup(collection)
		if !ok {
			continue
		}
		h := httpH.NewAggregateHandler(repo, cfg.Log)
		g := api.Group("/" + collection)
		{
			g.POST("", h.Create)
			g.GET("", h.Query)
			g.PATCH("", h.UpdateWithFilter)
			g.GET("/:id", h.Get)
			g.GET("/:id/exists", h.Exists)
			g.PATCH("/:id", h.UpdateByID)
			g.DELETE("/:id", h.Delete)
			g.PUT("/:id/:relation", h.AddRelation)
			g.POST("/:id/:relation", h.AddRelations)
			g.DELETE("/:id/:relation", h.RemoveRelation)
		}
	}
	return r
}
