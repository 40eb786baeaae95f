package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"painter/internal/applog"
	"painter/internal/config"
	"painter/internal/service"
)

// Every alias below reaches the same handler. Fiber routing is not strict, so
// "/api/images/" matches "/api/images".
var (
	uploadRoutes = []string{"/upload", "/api/upload", "/api/images"}
	infoRoutes   = []string{"/upload", "/api/upload", "/upload-info"}
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, cfg *config.AppConfig, svc service.UploadService, log *applog.Logger) {
	upload := Upload(svc, log)
	for _, r := range uploadRoutes {
		app.Post(r, upload)
	}

	info := UploadInfo(svc, cfg.Upload)
	for _, r := range infoRoutes {
		app.Get(r, info)
	}

	app.Get("/api/files", ListFiles(svc))
	app.Get("/api/uploads", UploadHistory(svc))

	app.Get("/actuator/health", ActuatorHealth())
	app.Get("/actuator/info", ActuatorInfo(cfg))
	app.Get("/health", SimpleHealth())
	app.Get("/healthz", LivenessProbe())
	app.Get("/ready", Readiness(svc))

	app.Get("/swagger/*", APIDocs())

	// Access URLs handed out by Upload resolve here.
	app.Static(cfg.Upload.ImagesPath, cfg.Upload.Dir, fiber.Static{
		Browse:         false,
		ModifyResponse: storedFileHeaders,
	})
}

// inlineTypes are rendered by browsers without running script; anything else is served as a download.
var inlineTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
	"image/avif": true,
}

// storedFileHeaders keeps uploaded HTML or SVG from executing on the API origin.
func storedFileHeaders(c *fiber.Ctx) error {
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	ct, _, _ := strings.Cut(string(c.Response().Header.ContentType()), ";")
	if !inlineTypes[strings.ToLower(strings.TrimSpace(ct))] {
		c.Set(fiber.HeaderContentDisposition, "attachment")
	}
	return nil
}
