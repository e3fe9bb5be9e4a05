package main

import (
	"log"
	"net/http"

	"github.com/karaagenomuranaoya/early-rising-race/internal/config"
	"github.com/karaagenomuranaoya/early-rising-race/internal/database"
	"github.com/karaagenomuranaoya/early-rising-race/internal/handlers"
	"github.com/karaagenomuranaoya/early-rising-race/internal/middleware"
	"github.com/karaagenomuranaoya/early-rising-race/internal/services"
	"github.com/karaagenomuranaoya/early-rising-race/internal/ws"

	_ "github.com/karaagenomuranaoya/early-rising-race/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Early Rising Race API
// @version         1.0
// @description     Backend for the wake-up race party game: join a room, be the first to wake up.
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Participant session token issued at join. Enter "Bearer {token}"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment")
	}

	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	tokenService := services.NewTokenService(cfg.JWTSecret)
	roomService := services.NewRoomService(db)
	raceService := services.NewRaceService(db, tokenService)

	roomHandler := handlers.NewRoomHandler(roomService, cfg.PublicBaseURL)
	playHandler := handlers.NewPlayHandler(raceService, roomService, hub)
	wsHandler := handlers.NewWSHandler(hub, roomService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/room/:code", wsHandler.HandleRoomWebSocket)

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("/:code", roomHandler.GetRoom)
			rooms.GET("/:code/winner", roomHandler.GetWinner)
			rooms.GET("/:code/leaderboard", roomHandler.GetLeaderboard)
			rooms.GET("/:code/qr", roomHandler.GetInviteQR)
		}

		play := api.Group("/play")
		{
			play.POST("/join", playHandler.Join)

			authed := play.Group("")
			authed.Use(middleware.ParticipantAuth(tokenService))
			{
				authed.GET("/me", playHandler.Me)
				authed.GET("/state", playHandler.GetState)
				authed.POST("/wake", playHandler.Wake)
				authed.POST("/comment", playHandler.Comment)
			}
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
