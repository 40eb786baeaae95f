package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"painter/internal/applog"
	"painter/internal/config"
	"painter/internal/model"
	"painter/internal/service"
)

// sampleSize bounds the file names reported by the info endpoint.
const sampleSize = 5

type uploadResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	model.UploadResult
}

type uploadInfoResponse struct {
	Endpoints          []string `json:"endpoints"`
	Method             string   `json:"method"`
	ContentType        string   `json:"contentType"`
	Parameter          string   `json:"parameter"`
	UploadDirectory    string   `json:"upload_directory"`
	MaxFileSize        int      `json:"max_file_size"`
	ViewImagesURL      string   `json:"view_images_url"`
	DirectoryExists    bool     `json:"directory_exists"`
	ExistingFilesCount int      `json:"existing_files_count"`
	SampleFiles        []string `json:"sample_files"`
}

type listFilesResponse struct {
	Directory       string   `json:"directory"`
	DirectoryExists bool     `json:"directory_exists"`
	Files           []string `json:"files"`
	Count           int      `json:"count"`
}

// Upload stores the multipart part named "file".
//
//	@Summary	Upload a file
//	@Tags		uploads
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"File to store"
//	@Success	200		{object}	uploadResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	500		{object}	errorPayload
//	@Router		/upload [post]
func Upload(svc service.UploadService, log *applog.Logger) fiber.Handler {
	log = log.With("http")
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no file provided or file is empty")
		}

		// Older card-manager clients send these alongside the file; they do not affect storage.
		if path, source, internal := c.FormValue("path"), c.FormValue("source"), c.FormValue("internal"); path != "" || source != "" || internal != "" {
			log.Info("legacy_upload_fields", map[string]any{
				"request_id": requestIDFromCtx(c),
				"route":      c.Path(),
				"path":       path,
				"source":     source,
				"internal":   internal,
			})
		}

		f, err := fh.Open()
		if err != nil {
			log.Error("upload_open_failed", err, map[string]any{"request_id": requestIDFromCtx(c)})
			return writeError(c, fiber.StatusInternalServerError, "WRITE_FAILED", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := svc.Store(c.UserContext(), model.UploadRequest{
			Content:             f,
			DeclaredName:        fh.Filename,
			DeclaredContentType: fh.Header.Get("Content-Type"),
		})
		if err != nil {
			if !errors.Is(err, service.ErrEmptyContent) {
				log.Error("upload_failed", err, map[string]any{
					"request_id":    requestIDFromCtx(c),
					"original_name": fh.Filename,
				})
			}
			return writeStoreError(c, err)
		}

		return c.JSON(uploadResponse{
			Status:       statusSuccess,
			Message:      "file uploaded successfully",
			UploadResult: *res,
		})
	}
}

// UploadInfo describes the upload endpoints and samples the upload root.
//
//	@Summary	Describe the upload endpoint
//	@Tags		uploads
//	@Produce	json
//	@Success	200	{object}	uploadInfoResponse
//	@Router		/upload [get]
func UploadInfo(svc service.UploadService, cfg config.UploadConfig) fiber.Handler {
	viewURL := strings.TrimRight(cfg.PublicBaseURL, "/") + "/"
	if p := strings.Trim(cfg.ImagesPath, "/"); p != "" {
		viewURL += p + "/"
	}
	return func(c *fiber.Ctx) error {
		dir := svc.Directory()

		count := 0
		sample := make([]string, 0, sampleSize)
		for name := range svc.List() {
			if len(sample) < sampleSize {
				sample = append(sample, name)
			}
			count++
		}

		return c.JSON(uploadInfoResponse{
			Endpoints:          uploadRoutes,
			Method:             fiber.MethodPost,
			ContentType:        fiber.MIMEMultipartForm,
			Parameter:          "file",
			UploadDirectory:    dir.Path,
			MaxFileSize:        cfg.MaxUploadBytes,
			ViewImagesURL:      viewURL,
			DirectoryExists:    dir.Exists,
			ExistingFilesCount: count,
			SampleFiles:        sample,
		})
	}
}

// ListFiles returns every file name currently in the upload root.
//
//	@Summary	List stored files
//	@Tags		uploads
//	@Produce	json
//	@Success	200	{object}	listFilesResponse
//	@Router		/api/files [get]
func ListFiles(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dir := svc.Directory()
		files := make([]string, 0)
		for name := range svc.List() {
			files = append(files, name)
		}
		return c.JSON(listFilesResponse{
			Directory:       dir.Path,
			DirectoryExists: dir.Exists,
			Files:           files,
			Count:           len(files),
		})
	}
}

// UploadHistory pages through the upload catalog with limit & offset.
//
//	@Summary	Upload history
//	@Tags		uploads
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"	default(10)
//	@Param		offset	query		int	false	"Offset"	default(0)
//	@Success	200		{object}	service.HistoryResult
//	@Failure	400		{object}	errorPayload
//	@Failure	503		{object}	errorPayload
//	@Router		/api/uploads [get]
func UploadHistory(svc service.UploadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.History(c.UserContext(), limit, offset)
		if err != nil {
			if errors.Is(err, service.ErrCatalogDisabled) {
				return writeError(c, fiber.StatusServiceUnavailable, "CATALOG_DISABLED", "upload catalog is not configured")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
