package user

type UserContainer struct {
	Repo    UserRepository
	Service UserService
	Handler *Handler
}

// NewUserContainer takes the repository from the caller because the leaderboard
// reads XP through it and must exist before the user service can notify it.
func NewUserContainer(repo UserRepository, ranking RankingInvalidator) *UserContainer {
	service := NewService(repo, ranking)
	handler := NewHandler(service)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
