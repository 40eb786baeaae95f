package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"painter/internal/applog"
	"painter/internal/config"
	"painter/internal/model"
	"painter/internal/repository"
	"painter/internal/storage"
)

const (
	// sniffLen matches the default read limit of mimetype.
	sniffLen = 3072
	// maxExtLen bounds the extension (dot included) carried into assigned names.
	maxExtLen = 17

	mirrorPrefix = "images/"

	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

var tracer = otel.Tracer("painter/internal/service")

// HistoryResult is a page of catalog records.
type HistoryResult struct {
	Items []model.UploadRecord `json:"data"`
	Total int                  `json:"total"`
}

// DirectoryInfo describes the upload root at the moment it was inspected.
type DirectoryInfo struct {
	Path   string
	Exists bool
}

// UploadService accepts uploads into the upload root and reports on its contents.
type UploadService interface {
	// Store writes req.Content under a freshly assigned name.
	// It fails with ErrEmptyContent, ErrDirectoryUnavailable or ErrWriteFailed.
	Store(ctx context.Context, req model.UploadRequest) (*model.UploadResult, error)

	// List yields the names currently in the upload root. Ranging again takes a new snapshot.
	// A missing root yields nothing.
	List() iter.Seq[string]

	// Directory reports the upload root path and whether it exists.
	Directory() DirectoryInfo

	// History pages through the upload catalog. It returns ErrCatalogDisabled without one.
	History(ctx context.Context, limit, offset int) (*HistoryResult, error)

	// Ready reports whether optional dependencies are reachable.
	Ready(ctx context.Context) error
}

// Option configures optional collaborators of the upload service.
type Option func(*uploadService)

// WithCatalog records every stored upload in repo.
func WithCatalog(repo repository.UploadRepository) Option {
	return func(s *uploadService) { s.catalog = repo }
}

// WithMirror copies every stored upload to store.
func WithMirror(store storage.ObjectStore) Option {
	return func(s *uploadService) { s.mirror = store }
}

func WithLogger(log *applog.Logger) Option {
	return func(s *uploadService) { s.log = log.With("upload") }
}

func WithMetrics(m *Metrics) Option {
	return func(s *uploadService) { s.metrics = m }
}

// uploadService holds only immutable configuration and concurrency-safe collaborators.
type uploadService struct {
	files      storage.FileStore
	baseURL    string
	imagesPath string

	catalog repository.UploadRepository
	mirror  storage.ObjectStore
	log     *applog.Logger
	metrics *Metrics
}

// NewUploadService constructs a new UploadService writing into files.
func NewUploadService(files storage.FileStore, cfg config.UploadConfig, opts ...Option) UploadService {
	s := &uploadService{
		files:      files,
		baseURL:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		imagesPath: strings.Trim(cfg.ImagesPath, "/"),
		log:        applog.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *uploadService) Store(ctx context.Context, req model.UploadRequest) (*model.UploadResult, error) {
	ctx, span := tracer.Start(ctx, "UploadService.Store")
	defer span.End()

	res, err := s.store(req)
	if err != nil {
		s.metrics.observe(0, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.metrics.observe(res.ByteSize, nil)
	span.SetAttributes(
		attribute.String("upload.filename", res.AssignedName),
		attribute.Int64("upload.size", res.ByteSize),
	)

	s.log.Info("upload_stored", map[string]any{
		"filename":      res.AssignedName,
		"original_name": res.OriginalName,
		"size":          res.ByteSize,
	})

	s.record(ctx, res)
	s.replicate(ctx, res)

	return res, nil
}

func (s *uploadService) store(req model.UploadRequest) (*model.UploadResult, error) {
	if req.Content == nil {
		return nil, ErrEmptyContent
	}

	// Peek first so an empty body never touches the filesystem.
	br := bufio.NewReaderSize(req.Content, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read content: %w", ErrWriteFailed, err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyContent
	}
	head = bytes.Clone(head)

	if err := s.files.EnsureRoot(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}

	original := declaredName(req.DeclaredName)
	name := assignName(original)

	info, err := s.files.Write(name, br)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return &model.UploadResult{
		AssignedName: name,
		OriginalName: original,
		StoredPath:   info.Path,
		ByteSize:     info.Size,
		ContentType:  contentType(req.DeclaredContentType, head),
		AccessURL:    s.accessURL(name),
	}, nil
}

// record writes the catalog row. The file on disk is authoritative, so a failure is logged, not returned.
func (s *uploadService) record(ctx context.Context, res *model.UploadResult) {
	if s.catalog == nil {
		return
	}
	_, err := s.catalog.Create(ctx, &model.UploadRecord{
		ID:           uuid.NewString(),
		Filename:     res.AssignedName,
		OriginalName: res.OriginalName,
		StoragePath:  res.StoredPath,
		Size:         res.ByteSize,
		ContentType:  res.ContentType,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.metrics.sideEffectFailed("catalog")
		s.log.Error("catalog_record_failed", err, map[string]any{"filename": res.AssignedName})
	}
}

// replicate copies the stored file to the mirror. Failures are logged, not returned.
func (s *uploadService) replicate(ctx context.Context, res *model.UploadResult) {
	if s.mirror == nil {
		return
	}
	err := func() error {
		rc, err := s.files.Open(res.AssignedName)
		if err != nil {
			return fmt.Errorf("open stored file: %w", err)
		}
		defer rc.Close()

		_, err = s.mirror.Put(ctx, mirrorPrefix+res.AssignedName, rc, storage.PutObjectOptions{
			Size:        res.ByteSize,
			ContentType: res.ContentType,
			Metadata: map[string]string{
				"original-filename": res.OriginalName,
			},
		})
		return err
	}()
	if err != nil {
		s.metrics.sideEffectFailed("mirror")
		s.log.Error("mirror_put_failed", err, map[string]any{"filename": res.AssignedName})
	}
}

func (s *uploadService) List() iter.Seq[string] {
	return s.files.Names()
}

func (s *uploadService) Directory() DirectoryInfo {
	return DirectoryInfo{Path: s.files.Root(), Exists: s.files.Exists()}
}

func (s *uploadService) History(ctx context.Context, limit, offset int) (*HistoryResult, error) {
	if s.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.catalog.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &HistoryResult{Items: res.Items, Total: res.Total}, nil
}

func (s *uploadService) Ready(ctx context.Context) error {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Ping(ctx)
}

func (s *uploadService) accessURL(name string) string {
	p := "/" + url.PathEscape(name)
	if s.imagesPath != "" {
		p = "/" + s.imagesPath + p
	}
	return s.baseURL + p
}

// declaredName strips any client-side directory from name. Windows separators are honoured too.
func declaredName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return model.DefaultDeclaredName
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return model.DefaultDeclaredName
	}
	return base
}

// assignName returns a random UUID followed by the extension of original, if it is a plain one.
func assignName(original string) string {
	return uuid.NewString() + safeExt(original)
}

func safeExt(name string) string {
	ext := path.Ext(name)
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}

func contentType(declared string, head []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimetype.Detect(head).String()
}
