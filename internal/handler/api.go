package handler

import (
	"github.com/lumenlog/internal/service"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	tags       *service.TagService
	categories *service.CategoryService
	comments   *service.CommentService
	views      *service.ViewService
	albums     *service.AlbumService
	profiles   *service.ProfileService
	logger     zerolog.Logger
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, logger zerolog.Logger, uploadDir, uploadURL string) *API {
	return &API{
		db:         gdb,
		posts:      service.NewPostService(gdb),
		tags:       service.NewTagService(gdb),
		categories: service.NewCategoryService(gdb),
		comments:   service.NewCommentService(gdb),
		views:      service.NewViewService(gdb),
		albums:     service.NewAlbumService(gdb),
		profiles:   service.NewProfileService(gdb),
		logger:     logger,
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Views exposes the view service, mainly for wiring and tests.
func (a *API) Views() *service.ViewService {
	return a.views
}
