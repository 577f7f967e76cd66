package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vmitrev/amora/internal/config"
	"github.com/vmitrev/amora/internal/database"
	postgresrepo "github.com/vmitrev/amora/internal/repository/postgres"
	"github.com/vmitrev/amora/internal/service"
	"github.com/vmitrev/amora/internal/storage"
	"github.com/vmitrev/amora/internal/transport/http/handlers"
	"github.com/vmitrev/amora/internal/transport/http/middleware"
	"github.com/vmitrev/amora/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to database")
	}
	defer pool.Close()
	log.Info().Msg("connected to database")

	// Blob storage
	blobs, err := storage.NewS3Store(context.Background(), cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("creating blob store")
	}

	// Repositories
	profileRepo := postgresrepo.NewProfileRepo(pool)
	likeRepo := postgresrepo.NewLikeRepo(pool)
	matchRepo := postgresrepo.NewMatchRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)

	// Services
	authService := service.NewAuthService(profileRepo, blobs, cfg.JWTSecret, log.Logger)
	profileService := service.NewProfileService(profileRepo, blobs, log.Logger)
	matchService := service.NewMatchService(likeRepo, matchRepo, profileRepo, log.Logger)
	chatService := service.NewChatService(messageRepo, matchRepo, profileRepo, blobs, log.Logger)
	voiceService := service.NewVoiceService(chatService, log.Logger)

	// WebSocket hub wires live snapshots and match events back to clients
	hub := ws.NewHub()
	go hub.Run()
	notifier := ws.NewHubNotifier(hub)
	chatService.SetNotifier(notifier)
	matchService.SetNotifier(notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	matchHandler := handlers.NewMatchHandler(matchService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Protected - Profiles
	mux.Handle("GET /api/v1/profiles", auth(http.HandlerFunc(profileHandler.Browse)))
	mux.Handle("GET /api/v1/profiles/me", auth(http.HandlerFunc(profileHandler.Me)))
	mux.Handle("PATCH /api/v1/profiles/me", auth(http.HandlerFunc(profileHandler.Update)))
	mux.Handle("POST /api/v1/profiles/me/photos", auth(http.HandlerFunc(profileHandler.AddPhoto)))
	mux.Handle("GET /api/v1/profiles/{id}", auth(http.HandlerFunc(profileHandler.Get)))

	// Protected - Likes & Matches
	mux.Handle("POST /api/v1/profiles/{id}/like", auth(http.HandlerFunc(matchHandler.Like)))
	mux.Handle("POST /api/v1/profiles/{id}/pass", auth(http.HandlerFunc(matchHandler.Pass)))
	mux.Handle("GET /api/v1/matches", auth(http.HandlerFunc(matchHandler.List)))

	// Protected - Chat
	mux.Handle("GET /api/v1/chats/{peer}", auth(http.HandlerFunc(chatHandler.Open)))
	mux.Handle("GET /api/v1/chats/{peer}/messages", auth(http.HandlerFunc(chatHandler.ListMessages)))
	mux.Handle("POST /api/v1/chats/{peer}/messages", auth(http.HandlerFunc(chatHandler.SendText)))
	mux.Handle("POST /api/v1/chats/{peer}/images", auth(http.HandlerFunc(chatHandler.SendImage)))
	mux.Handle("POST /api/v1/chats/{peer}/voice", auth(http.HandlerFunc(chatHandler.SendVoice)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, voiceService, cfg.JWTSecret))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("starting server")
	if err := http.ListenAndServe(addr, middleware.CORS(mux)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
