package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/marasteiner/flag-ding/docs"
	"github.com/marasteiner/flag-ding/handlers"
	"github.com/marasteiner/flag-ding/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes wires every endpoint. Reads are mostly public, mutations
// need a token, administration needs the admin role.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	applicationHandler *handlers.ApplicationHandler,
	gameHandler *handlers.GameHandler,
	scorecardHandler *handlers.ScorecardHandler,
	standingsHandler *handlers.StandingsHandler,
	scoreboardHandler *handlers.ScoreboardHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/login", authHandler.Login)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{teamID}", teamHandler.GetByID)
		r.Get("/{teamID}/players", playerHandler.ListByTeam)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Put("/{teamID}", teamHandler.Update)
			r.Put("/{teamID}/password", teamHandler.UpdatePassword)
			r.Post("/{teamID}/logo", teamHandler.UploadLogo)
			r.Post("/{teamID}/players", playerHandler.Create)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(auth.RequireAdmin)
			r.Post("/", teamHandler.Create)
			r.Delete("/{teamID}", teamHandler.Delete)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Put("/{playerID}", playerHandler.Update)
		r.Delete("/{playerID}", playerHandler.Delete)
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/games", tournamentHandler.ListGames)
		r.Get("/{tournamentID}/standings", standingsHandler.Tournament)
		r.Get("/{tournamentID}/standings/final", standingsHandler.Final)
		r.Get("/{tournamentID}/scoreboard", scoreboardHandler.Snapshot)
		r.Get("/{tournamentID}/scoreboard/ws", scoreboardHandler.ServeWs)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/{tournamentID}/applications", applicationHandler.Apply)
			r.Delete("/{tournamentID}/applications", applicationHandler.Withdraw)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(auth.RequireAdmin)
			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Get("/{tournamentID}/applications", applicationHandler.ListByTournament)
			r.Post("/{tournamentID}/teams", applicationHandler.AddTeam)
			r.Delete("/{tournamentID}/teams/{teamID}", applicationHandler.RemoveTeam)
			r.Post("/{tournamentID}/schedule", tournamentHandler.GenerateSchedule)
		})
	})

	router.Route("/applications", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/mine", applicationHandler.ListMine)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/", applicationHandler.ListAll)
			r.Post("/{applicationID}/approve", applicationHandler.Approve)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Get("/{gameID}", gameHandler.GetByID)
		r.Get("/{gameID}/scorecard", scorecardHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/{gameID}/scorecard/setup", scorecardHandler.Setup)
			r.Post("/{gameID}/scorecard/events", scorecardHandler.RecordEvent)
			r.Delete("/{gameID}/scorecard/events/{eventID}", scorecardHandler.DeleteEvent)
			r.Post("/{gameID}/scorecard/switch-offense", scorecardHandler.SwitchOffense)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(auth.RequireAdmin)
			r.Post("/", gameHandler.Create)
			r.Put("/{gameID}", gameHandler.Update)
			r.Put("/{gameID}/score", gameHandler.OverrideScore)
		})
	})

	router.Get("/standings/overall", standingsHandler.Overall)

	router.Route("/officials", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(auth.RequireAdmin)
		r.Get("/", scorecardHandler.ListOfficials)
	})

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.OpenAPISpec)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
