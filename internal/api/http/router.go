package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/manitto-app/manitto-server/internal/api/middleware"
)

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

func SetupRouter(
	userController *UserController,
	roomController *RoomController,
	cheerController *CheerController,
	rateLimit RateLimitConfig,
) *gin.Engine {
	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:3000",
		"https://manitto.app",
	}
	config.AllowCredentials = true
	config.AllowHeaders = []string{
		"Content-Type",
		"Origin",
		"Accept",
		"userCode",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	var limit gin.HandlerFunc
	if rateLimit.PerMinute > 0 {
		limiter := middleware.NewIPRateLimiter(rateLimit.PerMinute, rateLimit.Burst, 5*time.Minute)
		limit = middleware.RateLimitByIP(limiter)
	} else {
		limit = func(ctx *gin.Context) { ctx.Next() }
	}

	if userController != nil {
		user := router.Group("/user")
		user.POST("", limit, userController.CreateUser)
		user.GET("", userController.GetUser)
	}

	if roomController != nil {
		room := router.Group("/room")
		room.GET("", roomController.ListRooms)
		room.POST("", limit, roomController.CreateRoom)
		room.POST("/participate", limit, roomController.Participate)
		room.GET("/:roomId", roomController.GetRoomInfo)
		room.PATCH("/:roomId", limit, roomController.Confirm)
		room.DELETE("/:roomId", limit, roomController.RemoveRoom)
		room.DELETE("/:roomId/member/:userId", limit, roomController.RemoveMember)
		room.GET("/:roomId/receiver", roomController.GetReceiver)
		if cheerController != nil {
			room.GET("/:roomId/result", cheerController.GetResult)
		}
	}

	if cheerController != nil {
		cheer := router.Group("/cheer")
		cheer.GET("/:type/message", cheerController.GetMessage)
		cheer.POST("", limit, cheerController.SendCheer)
	}

	return router
}
