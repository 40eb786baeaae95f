package handler

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"painter/docs"
)

var docsOnce sync.Once

// APIDocs serves the Swagger UI and doc.json.
//
// The document is left host-relative so the UI resolves requests against whatever origin
// served it, including behind a proxy. SwaggerInfo is global and only written here, once.
func APIDocs() fiber.Handler {
	docsOnce.Do(func() {
		docs.SwaggerInfo.Host = ""
		docs.SwaggerInfo.Schemes = []string{}
	})
	return swagger.HandlerDefault
}
