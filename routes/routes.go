package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/courtsidehq/courtside/handlers"
	"github.com/courtsidehq/courtside/middleware"
)

// Config carries what route assembly needs beyond the handlers
// themselves.
type Config struct {
	JWTSecret       []byte
	AllowedOrigins  []string
	DisplayVerifier middleware.DisplayKeyVerifier
}

// SetupRoutes mounts the three route surfaces: the JWT-guarded command
// API for scorers, the display-key-guarded public read API, and the
// websocket rooms (display-key too, via query parameter).
func SetupRoutes(
	router *chi.Mux,
	cfg Config,
	matchHandler *handlers.MatchHandler,
	tournamentHandler *handlers.TournamentHandler,
	publicHandler *handlers.PublicHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/matches", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret))

		r.Post("/", matchHandler.CreateHandler)
		r.Get("/{matchID}", matchHandler.GetByIDHandler)
		r.Post("/{matchID}/start", matchHandler.StartHandler)
		r.Post("/{matchID}/points", matchHandler.ApplyPointHandler)
		r.Post("/{matchID}/undo", matchHandler.UndoHandler)
		r.Post("/{matchID}/complete", matchHandler.CompleteHandler)
		r.Post("/{matchID}/cancel", matchHandler.CancelHandler)
		r.Post("/{matchID}/bye", matchHandler.ResolveByeHandler)
		r.Post("/{matchID}/snapshot", matchHandler.ImportSnapshotHandler)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret))

		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/matches", matchHandler.ListByTournamentHandler)
	})

	router.Route("/public", func(r chi.Router) {
		r.Use(middleware.DisplayAuth(cfg.DisplayVerifier))

		r.Get("/tournaments", publicHandler.ListTournamentsHandler)
		r.Get("/tournaments/{tournamentID}", publicHandler.GetTournamentHandler)
		r.Get("/tournaments/{tournamentID}/matches", publicHandler.ListTournamentMatchesHandler)
		r.Get("/matches/{matchID}", publicHandler.GetMatchHandler)
	})

	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.DisplayAuth(cfg.DisplayVerifier))

		r.Get("/matches/{matchID}", webSocketHandler.ServeMatch)
		r.Get("/tournaments/{tournamentID}", webSocketHandler.ServeTournament)
	})
}
