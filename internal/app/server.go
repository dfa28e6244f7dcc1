package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/csg-hackathon/dilbot/internal/api/handlers"
	appMiddleware "github.com/csg-hackathon/dilbot/internal/api/middlewares"
	"github.com/csg-hackathon/dilbot/internal/config"
	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/core/quotes"
	"github.com/csg-hackathon/dilbot/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(
	cfg *config.Config,
	users *services.UserService,
	journal *services.JournalService,
	chat *services.ChatService,
	admin *services.AdminService,
	extractor *quotes.Extractor,
	transcriber core.Transcriber,
	speaker core.Speaker,
	archive core.ObjectClient,
) *Server {
	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret)
	chatHandler := handlers.NewChatHandler(chat)
	journalHandler := handlers.NewJournalHandler(journal)
	quotesHandler := handlers.NewQuotesHandler(chat, extractor, archive)
	voiceHandler := handlers.NewVoiceHandler(transcriber, speaker, chat, archive)
	adminHandler := handlers.NewAdminHandler(admin)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTAuth(cfg.JWTSecret))
			protected.Post("/chat", chatHandler.Chat)
			protected.Get("/journal", journalHandler.List)
			protected.Get("/journal/stats", journalHandler.Stats)
			protected.Post("/quotes/upload", quotesHandler.Upload)
			protected.Get("/quotes/categories", quotesHandler.Categories)
			protected.Post("/voice/transcribe", voiceHandler.Transcribe)
			protected.Post("/voice/speak", voiceHandler.Speak)

			// admin endpoints
			protected.Group(func(adm chi.Router) {
				adm.Use(appMiddleware.AdminOnly)
				adm.Get("/admin/stats", adminHandler.Stats)
				adm.Get("/admin/logs", adminHandler.Logs)
				adm.Post("/admin/logs/clear", adminHandler.ClearLogs)
				adm.Post("/admin/users/{username}/reset", adminHandler.ResetUser)
				adm.Get("/admin/export", adminHandler.Export)
			})
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
