package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/lumenlog/internal/config"
	"github.com/lumenlog/internal/db"
	"github.com/lumenlog/internal/handler"
	"github.com/lumenlog/internal/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(cfg config.AppConfig, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("lumenlog_session", store))

	api := handler.NewAPI(db.DB, logger, cfg.UploadDir, cfg.UploadURLPath)

	// 静态文件服务（上传目录）
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 评论写接口的进程内限流，防游客刷评论
	commentLimiter := middleware.RateLimit(rate.Every(2*time.Second), 5)

	pub := r.Group("/api")
	{
		pub.POST("/auth/login", api.Login)
		pub.POST("/auth/logout", api.Logout)
		pub.GET("/auth/me", api.Me)

		pub.GET("/posts", api.ListPublishedPosts)
		pub.GET("/posts/:id", api.GetPublishedPost)
		pub.POST("/posts/:id/view", api.RecordPostView)
		pub.GET("/posts/:id/comments", api.ListComments)

		pub.POST("/comments", commentLimiter, api.CreateComment)
		pub.PUT("/comments/:id", commentLimiter, api.UpdateComment)
		pub.DELETE("/comments/:id", commentLimiter, api.DeleteComment)

		pub.GET("/tags", api.ListPublicTags)
		pub.GET("/categories", api.ListCategories)
		pub.GET("/albums", api.ListPublishedAlbums)
		pub.GET("/albums/:id", api.GetPublishedAlbum)
		pub.GET("/profile", api.GetProfile)
	}

	admin := r.Group("/admin/api")
	admin.Use(handler.AuthRequired())
	{
		admin.GET("/dashboard", api.DashboardStats)

		admin.GET("/posts", api.GetPosts)
		admin.GET("/posts/:id", api.GetPost)
		admin.POST("/posts", api.CreatePost)
		admin.PUT("/posts/:id", api.UpdatePost)
		admin.DELETE("/posts/:id", api.DeletePost)
		admin.POST("/posts/:id/publish", api.PublishPost)
		admin.POST("/posts/:id/unpublish", api.UnpublishPost)

		admin.GET("/tags", api.GetTags)
		admin.POST("/tags", api.CreateTag)
		admin.PUT("/tags/:id", api.UpdateTag)
		admin.DELETE("/tags/:id", api.DeleteTag)

		admin.POST("/categories", api.CreateCategory)
		admin.PUT("/categories/:id", api.UpdateCategory)
		admin.DELETE("/categories/:id", api.DeleteCategory)

		admin.GET("/albums", api.GetAlbums)
		admin.GET("/albums/:id", api.GetAlbum)
		admin.POST("/albums", api.CreateAlbum)
		admin.PUT("/albums/:id", api.UpdateAlbum)
		admin.DELETE("/albums/:id", api.DeleteAlbum)
		admin.POST("/albums/:id/images", api.AddAlbumImage)
		admin.PUT("/album-images/:id", api.UpdateAlbumImage)
		admin.DELETE("/album-images/:id", api.DeleteAlbumImage)

		admin.PUT("/profile", api.UpdateProfile)
		admin.POST("/uploads", api.UploadImage)
	}

	return r
}
