package routes

import (
	"net/http"

	"github.com/Dosada05/league-bot/handlers"
	"github.com/Dosada05/league-bot/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	teamHandler *handlers.TeamHandler,
	offerHandler *handlers.OfferHandler,
	matchHandler *handlers.MatchHandler,
	refereeHandler *handlers.RefereeHandler,
	resultHandler *handlers.ResultHandler,
	settingHandler *handlers.SettingHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Event feed for the adapter; authenticated at upgrade time by the
	// same bearer token as the API.
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/ws/feed/{room}", webSocketHandler.ServeWs)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.CreateTeamHandler)
			r.Post("/roster", teamHandler.RosterHandler)
			r.Post("/release", teamHandler.ReleasePlayerHandler)
			r.Post("/{roleID}/delete", teamHandler.DeleteTeamHandler)
			r.Post("/{roleID}/manager", teamHandler.SetManagerHandler)
			r.Post("/{roleID}/manager/remove", teamHandler.RemoveManagerHandler)
			r.Post("/{roleID}/crest", teamHandler.UploadCrestHandler)
		})

		r.Route("/offers", func(r chi.Router) {
			r.Post("/propose", offerHandler.ProposeOfferHandler)
			r.Post("/finalize", offerHandler.FinalizeOfferHandler)
			r.Get("/by-message/{messageID}", offerHandler.GetOfferByMessageHandler)
			r.Post("/{offerID}/accept", offerHandler.AcceptOfferHandler)
			r.Post("/{offerID}/decline", offerHandler.DeclineOfferHandler)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", matchHandler.CreateMatchHandler)
			r.Post("/generate", matchHandler.GenerateSeasonHandler)
			r.Get("/upcoming", matchHandler.ListUpcomingMatchesHandler)
			r.Post("/{matchID}/edit", matchHandler.EditMatchHandler)
			r.Post("/{matchID}/cancel", matchHandler.CancelMatchHandler)
			r.Post("/{matchID}/reschedule", matchHandler.RescheduleMatchHandler)
		})

		r.Route("/fixtures", func(r chi.Router) {
			r.Get("/message", matchHandler.GetFixturesMessageHandler)
			r.Post("/message", matchHandler.TrackFixturesMessageHandler)
			r.Post("/message/clear", matchHandler.ClearFixturesMessageHandler)
		})

		r.Route("/referees", func(r chi.Router) {
			r.Get("/", refereeHandler.ListRefereesHandler)
			r.Post("/", refereeHandler.SetRefereeHandler)
			r.Post("/{userID}/remove", refereeHandler.RemoveRefereeHandler)
		})

		r.Post("/results", resultHandler.PostResultHandler)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/{key}", settingHandler.GetSettingHandler)
			r.Post("/{key}", settingHandler.SetSettingHandler)
		})
	})
}
