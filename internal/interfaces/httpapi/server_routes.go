package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/matches", handler.ListMatchesByTournament)
	mux.HandleFunc("GET /v1/matches/upcoming", handler.ListUpcomingMatches)
	mux.HandleFunc("GET /v1/matches/live", handler.ListLiveMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/lineup", handler.GetMatchLineup)
	mux.HandleFunc("GET /v1/matches/{matchID}/contests", handler.ListContestsByMatch)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/stats/recent", handler.ListPlayerRecentStats)
	mux.HandleFunc("GET /v1/teams/{teamID}/squad", handler.ListTeamSquad)
	mux.HandleFunc("GET /v1/contests/{contestID}/leaderboard", handler.ContestLeaderboard)
	mux.HandleFunc("GET /v1/content/banners", handler.ListBanners)
	mux.HandleFunc("GET /v1/content/faqs", handler.ListFAQs)
	mux.HandleFunc("GET /v1/content/pages/{slug}", handler.GetPage)
	mux.HandleFunc("GET /v1/scoring/rules", handler.GetScoringRules)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/fantasy/teams", handler.SaveFantasyTeam)
	mux.HandleFunc("GET /v1/fantasy/teams", handler.ListUserFantasyTeams)
	mux.HandleFunc("GET /v1/fantasy/teams/{teamID}", handler.GetFantasyTeam)
	mux.HandleFunc("GET /v1/fantasy/matches", handler.ListUserMatches)
	mux.HandleFunc("POST /v1/contests/{contestID}/entries", handler.JoinContest)
	mux.HandleFunc("GET /v1/wallets/{userID}", handler.GetWallet)
	mux.HandleFunc("GET /v1/wallets/{userID}/transactions", handler.ListWalletTransactions)
	mux.HandleFunc("POST /v1/wallets/{userID}/referral-bonus", handler.GrantReferralBonus)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAdminToken(adminToken, h)
	}

	mux.Handle("POST /v1/admin/contests", admin(handler.CreateContest))
	mux.Handle("PUT /v1/admin/contests/{contestID}", admin(handler.AdminUpdateContest))
	mux.Handle("DELETE /v1/admin/contests/{contestID}", admin(handler.DeleteContest))
	mux.Handle("POST /v1/admin/contests/{contestID}/resettle", admin(handler.ResettleContest))

	mux.Handle("POST /v1/admin/wallets/{userID}/adjustments", admin(handler.AdminAdjustWallet))

	mux.Handle("GET /v1/admin/content/banners", admin(handler.AdminListBanners))
	mux.Handle("POST /v1/admin/content/banners", admin(handler.SaveBanner))
	mux.Handle("DELETE /v1/admin/content/banners/{bannerID}", admin(handler.DeleteBanner))
	mux.Handle("GET /v1/admin/content/faqs", admin(handler.AdminListFAQs))
	mux.Handle("POST /v1/admin/content/faqs", admin(handler.SaveFAQ))
	mux.Handle("DELETE /v1/admin/content/faqs/{faqID}", admin(handler.DeleteFAQ))
	mux.Handle("GET /v1/admin/content/pages", admin(handler.AdminListPages))
	mux.Handle("POST /v1/admin/content/pages", admin(handler.SavePage))
	mux.Handle("DELETE /v1/admin/content/pages/{pageID}", admin(handler.DeletePage))
	mux.Handle("GET /v1/admin/content/referral-settings", admin(handler.GetReferralSettings))
	mux.Handle("PUT /v1/admin/content/referral-settings", admin(handler.SaveReferralSettings))

	mux.Handle("PUT /v1/admin/scoring/rules", admin(handler.UpdateScoringRule))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	job := func(h http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, h)
	}

	mux.Handle("POST /v1/internal/jobs/sync-tournaments", job(handler.SyncTournaments))
	mux.Handle("POST /v1/internal/jobs/tournaments/{tournamentID}/sync-teams", job(handler.SyncTeams))
	mux.Handle("POST /v1/internal/jobs/tournaments/{tournamentID}/sync-squads", job(handler.SyncSquads))
	mux.Handle("POST /v1/internal/jobs/tournaments/{tournamentID}/sync-fixtures", job(handler.SyncFixtures))
	mux.Handle("POST /v1/internal/jobs/sync-window", job(handler.SyncMatchWindow))
	mux.Handle("POST /v1/internal/jobs/matches/{matchID}/refresh", job(handler.RefreshMatch))
	mux.Handle("POST /v1/internal/jobs/ratings/recompute", job(handler.RecomputeRatings))
	mux.Handle("POST /v1/internal/jobs/ratings/players/{playerID}/recompute", job(handler.RecomputePlayerRating))
}
