package leaderboard

type LeaderboardContainer struct {
	Service LeaderboardService
	Handler *Handler
}

// NewLeaderboardContainer takes a nil cache when Redis is not configured.
func NewLeaderboardContainer(store XPStore, cache Cache) *LeaderboardContainer {
	service := NewService(store, cache)
	handler := NewHandler(service)

	return &LeaderboardContainer{
		Service: service,
		Handler: handler,
	}
}
