package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sachinsingh018/networkqy/controllers"
	"github.com/sachinsingh018/networkqy/middlewares"
	"github.com/sachinsingh018/networkqy/models"
	"github.com/sachinsingh018/networkqy/relay"
	"github.com/sachinsingh018/networkqy/services"
	"gorm.io/gorm"
)

// SetupRouter wires every endpoint. The relay hub and mailer are built by
// the caller so tests can pass fresh instances.
func SetupRouter(db *gorm.DB, hub *relay.Hub, mailer *services.Mailer) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db, mailer)
	connCtrl := controllers.NewConnectionController(db, mailer)
	msgCtrl := controllers.NewMessageController(db, hub)
	chatCtrl := controllers.NewChatController(db, hub)
	notifCtrl := controllers.NewNotificationController(db)
	postCtrl := controllers.NewPostController(db)
	jobCtrl := controllers.NewJobController(db)
	meetingCtrl := controllers.NewMeetingController(db)
	adminCtrl := controllers.NewAdminController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth endpoints get the strict limiter.
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)
		auth.PATCH("/profile", userCtrl.UpdateProfile)
		auth.GET("/users/search", userCtrl.SearchUsers)

		auth.POST("/connections", connCtrl.RequestConnection)
		auth.PATCH("/connections/:connection_id", connCtrl.RespondConnection)
		auth.GET("/connections", connCtrl.ListConnections)
		auth.GET("/connections/status/:user_id", connCtrl.GetConnectionStatus)

		auth.POST("/messages", msgCtrl.SendMessage)
		auth.GET("/messages/:user_id", msgCtrl.GetConversation)
		auth.GET("/conversations", msgCtrl.ListConversations)

		auth.GET("/notifications", notifCtrl.ListNotifications)
		auth.PATCH("/notifications/read-all", notifCtrl.MarkAllRead)
		auth.PATCH("/notifications/:notif_id/read", notifCtrl.MarkRead)

		auth.POST("/posts", postCtrl.CreatePost)
		auth.GET("/posts", postCtrl.GetFeed)
		auth.POST("/posts/:post_id/like", postCtrl.ToggleLike)
		auth.POST("/posts/:post_id/comments", postCtrl.CreateComment)
		auth.GET("/posts/:post_id/comments", postCtrl.GetComments)

		auth.GET("/jobs", jobCtrl.ListJobs)
		auth.GET("/jobs/:job_id", jobCtrl.GetJob)
		auth.POST("/jobs/:job_id/apply", jobCtrl.Apply)
		auth.GET("/jobs/:job_id/applications", jobCtrl.ListApplications)
		auth.DELETE("/jobs/:job_id", jobCtrl.DeleteJob)

		recruiter := auth.Group("/")
		recruiter.Use(middlewares.RequireRole(models.RoleRecruiter))
		{
			recruiter.POST("/jobs", jobCtrl.CreateJob)
		}

		auth.PUT("/calendar", meetingCtrl.SaveCalendar)
		auth.GET("/calendar", meetingCtrl.GetCalendar)
		auth.POST("/meetings/suggest", meetingCtrl.SuggestMeeting)

		auth.GET("/admin/stats", adminCtrl.GetDashboardStats)
		auth.GET("/admin/growth", adminCtrl.GetGrowthReport)
		auth.GET("/admin/users", adminCtrl.ListUsers)
		auth.GET("/admin/reports/export-pdf", adminCtrl.ExportPDF)
	}

	// WebSocket endpoint; the handshake authenticates via query token.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("", chatCtrl.Handle)
	}

	return r
}
