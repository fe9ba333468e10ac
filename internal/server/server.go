package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"discussify.com/api/internal/config"
	"discussify.com/api/internal/middleware"
	"discussify.com/api/internal/scheduler"
	"discussify.com/api/pkg/async"
	"discussify.com/api/pkg/eventbus"
	"discussify.com/api/pkg/mailer"
	"discussify.com/api/pkg/ratelimiter"
	"discussify.com/api/pkg/storage"

	activityHttp "discussify.com/api/internal/modules/activity/delivery/http"
	activityRepo "discussify.com/api/internal/modules/activity/repository"
	activityService "discussify.com/api/internal/modules/activity/service"

	adminHttp "discussify.com/api/internal/modules/admin/delivery/http"
	adminService "discussify.com/api/internal/modules/admin/service"

	"discussify.com/api/internal/modules/community/access"
	communityHttp "discussify.com/api/internal/modules/community/delivery/http"
	communityRepo "discussify.com/api/internal/modules/community/repository"
	communityService "discussify.com/api/internal/modules/community/service"

	discussionHttp "discussify.com/api/internal/modules/discussion/delivery/http"
	discussionRepo "discussify.com/api/internal/modules/discussion/repository"
	discussionService "discussify.com/api/internal/modules/discussion/service"

	notiHttp "discussify.com/api/internal/modules/notification/delivery/http"
	notifRepo "discussify.com/api/internal/modules/notification/repository"
	notifService "discussify.com/api/internal/modules/notification/service"

	reactionHttp "discussify.com/api/internal/modules/reaction/delivery/http"
	reactionRepo "discussify.com/api/internal/modules/reaction/repository"
	reactionService "discussify.com/api/internal/modules/reaction/service"

	resourceHttp "discussify.com/api/internal/modules/resource/delivery/http"
	resourceRepo "discussify.com/api/internal/modules/resource/repository"
	resourceService "discussify.com/api/internal/modules/resource/service"

	searchService "discussify.com/api/internal/modules/search/service"

	userHttp "discussify.com/api/internal/modules/user/delivery/http"
	userRepo "discussify.com/api/internal/modules/user/repository"
	userService "discussify.com/api/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine    *gin.Engine
	http      *http.Server
	scheduler *scheduler.Scheduler
}

// NewServer wires every module. Redis, Meilisearch, Cloudinary and SMTP are
// optional; the features that need them degrade when they are missing.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, runner async.Runner, events eventbus.Publisher) *Server {
	if events == nil {
		events = eventbus.Noop()
	}

	userRepo := userRepo.NewUserRepository(db)
	limiter := ratelimiter.New(redisClient)

	var fileStorage storage.FileStorage
	if cfg.CloudinaryURL != "" {
		fs, err := storage.NewCloudinaryStorage(cfg.CloudinaryURL, cfg.CloudinaryUploadFolder)
		if err != nil {
			log.Printf("[storage] cloudinary disabled: %v", err)
		} else {
			fileStorage = fs
		}
	}

	var searcher searchService.CommunitySearcher
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searcher = searchService.NewMeiliSearchService(meiliClient)
	}

	authSvc := userService.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, fileStorage, runner)
	authHandler := userHttp.NewAuthHandler(authSvc)

	activityRepository := activityRepo.NewActivityRepository(db)
	activityRecorder := activityService.NewRecorder(activityRepository, runner)
	activityHandler := activityHttp.NewActivityHandler(activityRecorder)

	communityRepository := communityRepo.NewCommunityRepository(db)
	discussionRepository := discussionRepo.NewDiscussionRepository(db)
	commentRepository := discussionRepo.NewCommentRepository(db)
	resourceRepository := resourceRepo.NewResourceRepository(db)
	gate := access.NewGate(communityRepository)

	// Notification Module
	dispatcherOpts := []notifService.DispatcherOption{notifService.WithRedis(redisClient)}
	if cfg.SMTPEnabled() {
		dispatcherOpts = append(dispatcherOpts, notifService.WithMailer(mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}), cfg.FrontendURL))
	}
	notificationRepository := notifRepo.NewNotificationRepository(db)
	dispatcher := notifService.NewDispatcher(notificationRepository, communityRepository, userRepo, runner, dispatcherOpts...)
	notificationSvc := notifService.NewNotificationService(notificationRepository, userRepo)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, cfg.AllowedOrigins)

	communitySvc := communityService.NewCommunityService(
		communityRepository, userRepo, discussionRepository, dispatcher, activityRecorder,
		runner, events, searcher, fileStorage, limiter, cfg.RateLimitCommunity,
	)
	communityHandler := communityHttp.NewCommunityHandler(communitySvc)

	discussionSvc := discussionService.NewDiscussionService(discussionRepository, commentRepository, gate, dispatcher, activityRecorder, limiter, cfg.RateLimitDiscussion)
	discussionHandler := discussionHttp.NewDiscussionHandler(discussionSvc)

	likeRepository := reactionRepo.NewLikeRepository(db)
	likeSvc := reactionService.NewLikeService(likeRepository, gate, discussionRepository, commentRepository)
	likeHandler := reactionHttp.NewLikeHandler(likeSvc)

	resourceSvc := resourceService.NewResourceService(resourceRepository, gate, fileStorage, dispatcher, activityRecorder)
	resourceHandler := resourceHttp.NewResourceHandler(resourceSvc)

	adminSvc := adminService.NewAdminService(userRepo, communityRepository, discussionRepository, resourceRepository, communitySvc)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	sched := scheduler.NewScheduler(5 * time.Minute)
	if searcher != nil {
		if err := sched.Register(scheduler.NewReindexJob(communitySvc, cfg.SearchReindexSchedule)); err != nil {
			log.Printf("[scheduler] %v", err)
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/v1/notifications/ws"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)
	requireAuth := authMiddleware.RequireAuth()
	optionalAuth := authMiddleware.OptionalAuth()

	api := router.Group("/api/v1")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Discussify API is Healthy"})
	})

	users := api.Group("/users")
	{
		users.POST("/signup", authHandler.Signup)
		users.POST("/login", authHandler.Login)
		users.GET("/profile", requireAuth, authHandler.GetProfile)
		users.PATCH("/profile", requireAuth, authHandler.UpdateProfile)
		users.DELETE("/profile", requireAuth, authHandler.DeleteProfile)
		users.GET("/activity", requireAuth, activityHandler.GetMyActivity)
		users.GET("/search", requireAuth, authHandler.SearchUsers)
	}

	// Public reads identify the caller when a token is present.
	communities := api.Group("/communities")
	{
		communities.GET("", optionalAuth, communityHandler.GetAllCommunities)
		communities.GET("/:id", optionalAuth, communityHandler.GetCommunity)
		communities.GET("/:id/discussions", optionalAuth, discussionHandler.GetAllDiscussions)
		communities.GET("/:id/discussions/:discussionId", optionalAuth, discussionHandler.GetDiscussion)
		communities.GET("/:id/discussions/:discussionId/comments", optionalAuth, discussionHandler.GetComments)
		communities.GET("/:id/resources", optionalAuth, resourceHandler.GetAllResources)
	}

	protected := communities.Group("")
	protected.Use(requireAuth)
	{
		protected.POST("", communityHandler.CreateCommunity)
		protected.PATCH("/:id", communityHandler.UpdateCommunity)
		protected.DELETE("/:id", communityHandler.DeleteCommunity)

		protected.POST("/:id/join", communityHandler.JoinCommunity)
		protected.POST("/:id/leave", communityHandler.LeaveCommunity)
		protected.POST("/:id/kick", communityHandler.KickMember)
		protected.PATCH("/:id/kick", communityHandler.KickMember)
		protected.POST("/:id/role", communityHandler.UpdateMemberRole)
		protected.PATCH("/:id/role", communityHandler.UpdateMemberRole)
		protected.POST("/:id/requests", communityHandler.HandleJoinRequest)
		protected.PATCH("/:id/requests", communityHandler.HandleJoinRequest)
		protected.POST("/:id/invite", communityHandler.InviteUser)
		protected.POST("/:id/respond-invite", communityHandler.RespondToInvite)

		protected.POST("/:id/discussions", discussionHandler.CreateDiscussion)
		protected.POST("/:id/discussions/:discussionId/comments", discussionHandler.CreateComment)
		protected.POST("/:id/discussions/:discussionId/like", likeHandler.LikeDiscussion)
		protected.POST("/:id/discussions/:discussionId/comments/:commentId/like", likeHandler.LikeComment)

		protected.POST("/:id/resources", resourceHandler.CreateResource)
	}

	notifications := api.Group("/notifications")
	notifications.Use(requireAuth)
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.PATCH("/mark-read/:id", notificationHandler.MarkAsRead)
		notifications.PATCH("/preferences", notificationHandler.UpdatePreferences)
		notifications.GET("/ws", notificationHandler.HandleWebSocket)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(requireAuth, authMiddleware.RequireAdmin())
	{
		adminGroup.GET("/stats", adminHandler.GetStats)
		adminGroup.GET("/users", adminHandler.GetAllUsers)
		adminGroup.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)
		adminGroup.DELETE("/communities/:id", adminHandler.DeleteCommunity)
	}

	return &Server{
		engine: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		scheduler: sched,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the scheduler and blocks serving HTTP until Shutdown.
func (s *Server) Run() error {
	s.scheduler.Start()
	log.Printf("server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then stops the scheduler.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.scheduler.Stop(ctx)
	return err
}

func setupCORS(router *gin.Engine, origins []string) {
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
