package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "artboard_redis_errors_total",
	Help: "Total number of Redis command errors by command",
}, []string{"command"})

// ActiveWebSockets tracks the number of currently connected feed clients.
var ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "artboard_active_websockets",
	Help: "Number of currently connected WebSocket clients",
})

// InitMetrics builds the Prometheus HTTP middleware, recording request
// counts and latencies under the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the Prometheus middleware into a fiber.Handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
