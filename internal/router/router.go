package router

import (
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/config"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/domain"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/handler"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/middleware"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/repository"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/ws"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/pkg/cloudinary"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto the engine.
// The returned MergeService is handed to main for the background sweep.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, docs storage.DocumentStore, rdb *redis.Client) (*gin.Engine, *service.MergeService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	adoptionRepo := repository.NewAdoptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	userHub := ws.NewHub()
	chatHub := ws.NewChatHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userHub)
	enrichSvc := service.NewEnrichService(postRepo, userRepo, adoptionRepo)
	adoptionSvc := service.NewAdoptionService(db, adoptionRepo, postRepo, userRepo, notifSvc)
	badge := service.NewBadgeCache(rdb, cfg.Redis.BadgeTTL)
	chatSvc := service.NewChatService(chatRepo, userRepo, postRepo, adoptionRepo, badge, userHub, chatHub)
	mergeSvc := service.NewMergeService(chatRepo, chatHub)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, chatSvc)
	postHandler := handler.NewPostHandler(postRepo, communityRepo)
	communityHandler := handler.NewCommunityHandler(communityRepo, postRepo)
	adoptionHandler := handler.NewAdoptionHandler(adoptionSvc, adoptionRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, enrichSvc)
	chatHandler := handler.NewChatHandler(chatSvc, mergeSvc, cfg.Chat.MessagePageSize)
	uploadHandler := handler.NewUploadHandler(cloud, docs)
	vetHandler := handler.NewVetHandler(postRepo, notifSvc)
	adminHandler := handler.NewAdminHandler(userRepo, postRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		api.GET("/posts", postHandler.List)
		api.GET("/posts/:id", postHandler.Get)
		api.POST("/posts", authMw, postHandler.Create)
		api.PUT("/posts/:id", authMw, postHandler.Update)
		api.PATCH("/posts/:id/status", authMw, postHandler.UpdateStatus)

		api.GET("/communities", communityHandler.List)
		api.GET("/communities/:id", communityHandler.Get)
		api.GET("/communities/:id/posts", communityHandler.Posts)
		api.POST("/communities", authMw, communityHandler.Create)

		api.POST("/adoptions", authMw, adoptionHandler.Create)
		api.GET("/adoptions/:id", authMw, adoptionHandler.Get)
		api.POST("/adoptions/:id/approve", authMw, adoptionHandler.Approve)
		api.POST("/adoptions/:id/reject", authMw, adoptionHandler.Reject)

		api.GET("/users/:id", meHandler.GetUser)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.GET("/adoptions", adoptionHandler.Mine)
			me.GET("/adoptions/incoming", adoptionHandler.Incoming)
			me.GET("/notifications", notificationHandler.List)
			me.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
			me.DELETE("/notifications", notificationHandler.DeleteAll)
			me.GET("/conversations", chatHandler.ListConversations)
			me.POST("/conversations", chatHandler.StartConversation)
			me.GET("/conversations/:id", chatHandler.GetConversation)
			me.GET("/conversations/:id/messages", chatHandler.ListMessages)
			me.POST("/conversations/:id/messages", chatHandler.SendMessage)
			me.PUT("/conversations/:id/read", chatHandler.MarkRead)
			me.GET("/unread-badge", chatHandler.UnreadBadge)
			me.POST("/conversations/merge", chatHandler.MergeDuplicates)
			me.POST("/upload/post-image", uploadHandler.UploadPostImage)
			me.POST("/upload/chat-image", uploadHandler.UploadChatImage)
			me.POST("/upload/avatar", uploadHandler.UploadAvatar)
			me.POST("/upload/document", uploadHandler.UploadDocument)
			me.GET("/documents/link", uploadHandler.DocumentLink)
		}

		vet := api.Group("/vet")
		vet.Use(authMw, middleware.RequireRole(domain.RoleVet, domain.RoleAdmin))
		{
			vet.GET("/posts/pending", vetHandler.ListPending)
			vet.POST("/posts/:id/approve", vetHandler.Approve)
			vet.POST("/posts/:id/reject", vetHandler.Reject)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/role", adminHandler.SetRole)
			admin.POST("/users/:id/verify-shelter", adminHandler.VerifyShelter)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	r.GET("/ws/chat", handler.UpgradeChatWS(&cfg.JWT, chatHub, chatSvc))
	r.GET("/ws/user", handler.UpgradeUserWS(&cfg.JWT, userHub))

	return r, mergeSvc
}
