// Package kernel assembles the service's HTTP handler: the global
// middleware stack, /metrics, and the application routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the router. limiter may be nil to disable rate
// limiting; register adds the application routes.
func NewHTTPKernel(limiter middleware.Limiter, register func(*router.Router)) *HTTPKernel {
	r := router.New()

	// Global middleware stack, outermost first:
	//  1. Prometheus metrics, for total latency
	//  2. Request ID, before anything logs
	//  3. Logger, tags the request logger with request_id
	//  4. Recovery, so a panic still reaches the logger as a 500
	//  5. CORS
	//  6. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)
	r.Handle("/metrics", "metrics", metrics.Handler())

	register(r)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists the registered routes, for route:list.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }
