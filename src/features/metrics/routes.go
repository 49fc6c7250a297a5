package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes exposes the prometheus scrape endpoint on path.
func RegisterRoutes(app *fiber.App, collector *Collector, path string) {
	handler := promhttp.HandlerFor(collector.registry, promhttp.HandlerOpts{
		Registry: collector.registry,
	})
	app.Get(path, adaptor.HTTPHandler(handler))
}
