package router

import (
	"net/http"

	docs "github.com/college-budget/backend/api"
	"github.com/college-budget/backend/internal/auth"
	"github.com/college-budget/backend/internal/config"
	"github.com/college-budget/backend/internal/controllers/healthz"
	v1 "github.com/college-budget/backend/internal/controllers/v1"
	"github.com/college-budget/backend/internal/notify"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Config sets up the router with all middlewares and routes.
//
// The returned teardown function must be called before the process
// exits, it unregisters the Prometheus collectors so that tests can set
// up the router repeatedly.
func Config(cfg config.Config) (*gin.Engine, func(), error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if len(cfg.CORSAllowOrigins) > 0 {
		log.Debug().Strs("allowOrigins", cfg.CORSAllowOrigins).Msg("CORS")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	if err := registerPrometheusMetrics(); err != nil {
		return nil, func() {}, err
	}
	r.Use(MetricsMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.EnablePprof {
		pprof.Register(r, "debug/pprof")
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	r.GET("", GetRoot)
	r.OPTIONS("", OptionsRoot)
	r.GET("/version", GetVersion)
	r.OPTIONS("/version", OptionsVersion)

	healthz.RegisterRoutes(r.Group("/healthz"))

	docs.SwaggerInfo.Title = "College Budget Backend"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for the college budget management system, an allocation and expenditure approval ledger."

	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	co := v1.Controller{
		Config:   cfg,
		Notifier: notify.New(cfg.Notify.EventPatterns, nil),
	}

	// All ledger routes require a verified identity
	api := r.Group("/v1", AuthMiddleware(auth.NewParser(cfg.Auth.AccessSecret)))
	{
		api.GET("", GetV1)
		api.OPTIONS("", OptionsV1)
	}

	co.RegisterAllocationRoutes(api.Group("/allocations"))
	co.RegisterExpenditureRoutes(api.Group("/expenditures"))
	co.RegisterProposalRoutes(api.Group("/proposals"))
	co.RegisterFinancialYearRoutes(api.Group("/financial-years"))
	co.RegisterExportRoutes(api.Group("/export"))

	log.Info().Msg("backend startup complete")

	teardown := func() {
		unregisterPrometheusMetrics()
	}

	return r, teardown, nil
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"` // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`      // Health check endpoint
	Version string `json:"version" example:"https://example.com/api/version"`      // Endpoint returning the version of the backend
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"`      // Prometheus metrics
	V1      string `json:"v1" example:"https://example.com/api/v1"`                // List endpoint for all v1 endpoints
}

// @Summary		API root
// @Description	Entrypoint for the API, listing all endpoints
// @Tags			General
// @Success		200	{object}	RootResponse
// @Router			/ [get]
func GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    "/docs/index.html",
			Healthz: "/healthz",
			Version: "/version",
			Metrics: "/metrics",
			V1:      "/v1",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/ [options]
func OptionsRoot(c *gin.Context) {
	c.Header("allow", "GET")
	c.Status(http.StatusNoContent)
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}

type VersionObject struct {
	Version string `json:"version" example:"1.0.0"` // The version of the backend
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func OptionsVersion(c *gin.Context) {
	c.Header("allow", "GET")
	c.Status(http.StatusNoContent)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	Allocations    string `json:"allocations" example:"https://example.com/api/v1/allocations"`        // URL of the allocation endpoints
	Expenditures   string `json:"expenditures" example:"https://example.com/api/v1/expenditures"`      // URL of the expenditure endpoints
	Proposals      string `json:"proposals" example:"https://example.com/api/v1/proposals"`            // URL of the proposal endpoints
	FinancialYears string `json:"financialYears" example:"https://example.com/api/v1/financial-years"` // URL of the financial year endpoints
	Export         string `json:"export" example:"https://example.com/api/v1/export"`                  // URL of the export endpoints
}

// @Summary		v1 API
// @Description	Returns the link list for v1
// @Tags			v1
// @Success		200	{object}	V1Response
// @Router			/v1 [get]
// @Security		BearerAuth
func GetV1(c *gin.Context) {
	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			Allocations:    "/v1/allocations",
			Expenditures:   "/v1/expenditures",
			Proposals:      "/v1/proposals",
			FinancialYears: "/v1/financial-years",
			Export:         "/v1/export",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	c.Header("allow", "GET")
	c.Status(http.StatusNoContent)
}
