package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"anoa.com/scidiscoveries/internal/config"
	"anoa.com/scidiscoveries/internal/middleware"
	"anoa.com/scidiscoveries/pkg/ratelimiter"
	"anoa.com/scidiscoveries/pkg/storage"
	"anoa.com/scidiscoveries/pkg/validator"

	commentHttp "anoa.com/scidiscoveries/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/scidiscoveries/internal/modules/comment/repository"
	commentService "anoa.com/scidiscoveries/internal/modules/comment/service"

	contentHttp "anoa.com/scidiscoveries/internal/modules/content/delivery/http"
	contentRepo "anoa.com/scidiscoveries/internal/modules/content/repository"
	contentService "anoa.com/scidiscoveries/internal/modules/content/service"

	fieldHttp "anoa.com/scidiscoveries/internal/modules/field/delivery/http"
	fieldRepo "anoa.com/scidiscoveries/internal/modules/field/repository"
	fieldService "anoa.com/scidiscoveries/internal/modules/field/service"

	followHttp "anoa.com/scidiscoveries/internal/modules/follow/delivery/http"
	followRepo "anoa.com/scidiscoveries/internal/modules/follow/repository"
	followService "anoa.com/scidiscoveries/internal/modules/follow/service"

	institutionHttp "anoa.com/scidiscoveries/internal/modules/institution/delivery/http"
	institutionRepo "anoa.com/scidiscoveries/internal/modules/institution/repository"
	institutionService "anoa.com/scidiscoveries/internal/modules/institution/service"

	likeHttp "anoa.com/scidiscoveries/internal/modules/like/delivery/http"
	likeRepo "anoa.com/scidiscoveries/internal/modules/like/repository"
	likeService "anoa.com/scidiscoveries/internal/modules/like/service"

	userHttp "anoa.com/scidiscoveries/internal/modules/user/delivery/http"
	userRepo "anoa.com/scidiscoveries/internal/modules/user/repository"
	userService "anoa.com/scidiscoveries/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
}

// Handlers groups every HTTP handler the route table refers to.
type Handlers struct {
	User        *userHttp.UserHandler
	Institution *institutionHttp.InstitutionHandler
	Field       *fieldHttp.FieldHandler
	Content     *contentHttp.ContentHandler
	Like        *likeHttp.LikeHandler
	Comment     *commentHttp.CommentHandler
	Follow      *followHttp.FollowHandler
}

// Services exposes the services needed outside the HTTP layer, such as boot-time seeding.
type Services struct {
	Field fieldService.FieldService
}

// NewServer wires repositories, services and handlers. redisClient and
// imageStorage may be nil; rate limiting and avatar uploads are then disabled.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, imageStorage storage.ImageStorage) (*Server, *Services) {
	limiter := ratelimiter.New(redisClient)

	userRepository := userRepo.NewUserRepository(db)
	institutionRepository := institutionRepo.NewInstitutionRepository(db)
	followRepository := followRepo.NewFollowRepository(db)
	fieldRepository := fieldRepo.NewFieldRepository(db)
	contentRepository := contentRepo.NewContentRepository(db)
	likeRepository := likeRepo.NewLikeRepository(db)
	commentRepository := commentRepo.NewCommentRepository(db)

	authSvc := userService.NewAuthService(userRepository, institutionRepository, followRepository, cfg.JWTSecret, cfg.JWTTTL)
	userSvc := userService.NewUserService(userRepository, institutionRepository, followRepository, imageStorage)
	institutionSvc := institutionService.NewInstitutionService(institutionRepository)
	fieldSvc := fieldService.NewFieldService(fieldRepository)
	commentSvc := commentService.NewCommentService(commentRepository, contentRepository, limiter, cfg.RateLimitComment)
	contentSvc := contentService.NewContentService(
		contentRepository,
		fieldRepository,
		likeRepository,
		commentRepository,
		commentSvc,
		userRepository,
		limiter,
		cfg.RateLimitContent,
	)
	likeSvc := likeService.NewLikeService(likeRepository, contentRepository)
	followSvc := followService.NewFollowService(followRepository, userRepository)

	handlers := Handlers{
		User:        userHttp.NewUserHandler(authSvc, userSvc),
		Institution: institutionHttp.NewInstitutionHandler(institutionSvc),
		Field:       fieldHttp.NewFieldHandler(fieldSvc),
		Content:     contentHttp.NewContentHandler(contentSvc),
		Like:        likeHttp.NewLikeHandler(likeSvc),
		Comment:     commentHttp.NewCommentHandler(commentSvc),
		Follow:      followHttp.NewFollowHandler(followSvc),
	}

	router := NewRouter(cfg, middleware.NewAuthMiddleware(cfg.JWTSecret), handlers)

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, &Services{Field: fieldSvc}
}

// NewRouter builds the gin engine with global middleware and the route table.
func NewRouter(cfg *config.Config, auth *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.UseJSONFieldNames()

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	registerRoutes(api, auth, routes(h))

	return router
}

func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
