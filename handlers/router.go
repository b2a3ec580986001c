// Package handlers exposes the services over a gin REST API under /api.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chirp/media"
	"chirp/middleware"
	"chirp/service"
)

type Deps struct {
	Services *service.Services
	Auth     middleware.Authenticator
	Media    media.Store
	// Limiter guards the credential routes. Nil disables throttling.
	Limiter middleware.Limiter
	Metrics *middleware.Metrics
	Log     logrus.FieldLogger

	CORSOrigins []string
	// UploadDir is served at /uploads when set.
	UploadDir string
}

type handler struct {
	svc   *service.Services
	media media.Store
	log   logrus.FieldLogger
}

func NewRouter(d Deps) *gin.Engine {
	registerValidators()

	h := &handler{svc: d.Services, media: d.Media, log: d.Log}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	requireAuth := middleware.RequireAuth(d.Auth)
	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if d.Limiter != nil {
		throttle = middleware.Throttle(d.Limiter, d.Log)
	}
	uploads := limitBody(media.MaxUploadSize*2 + 1<<20)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is running"})
	})

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", throttle, h.register)
		authGroup.POST("/login", throttle, h.login)
		authGroup.GET("/me", requireAuth, h.me)
	}

	posts := api.Group("/posts")
	{
		posts.POST("", requireAuth, uploads, h.createPost)
		posts.GET("", requireAuth, h.timeline)
		posts.GET("/:id", h.getPost)
		posts.DELETE("/:id", requireAuth, h.deletePost)
		posts.POST("/:id/like", requireAuth, h.likePost)
	}

	users := api.Group("/users")
	{
		users.GET("/:id", h.getUser)
		users.GET("/:id/posts", h.userPosts)
		users.PUT("/:id", requireAuth, uploads, h.updateUser)
	}

	follows := api.Group("/follows")
	{
		follows.POST("/:id", requireAuth, h.toggleFollow)
		follows.GET("/:id/followers", h.followers)
		follows.GET("/:id/following", h.following)
	}

	return r
}

// limitBody caps the request body at n bytes.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
