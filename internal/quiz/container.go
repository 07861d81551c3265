package quiz

import (
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
	"github.com/saulo-duarte/learnhub-lambda/internal/events"
)

type QuizContainer struct {
	Repo    QuizRepository
	Service QuizService
	Handler *Handler
}

// NewQuizContainer takes the repository from the caller because enrollment needs
// it as its QuizIndex before the quiz service can exist.
func NewQuizContainer(
	repo QuizRepository,
	catalog Catalog,
	enrollments Enrollments,
	xp enrollment.XPAwarder,
	publisher events.Publisher,
) *QuizContainer {
	service := NewService(repo, catalog, enrollments, xp, publisher)
	handler := NewHandler(service)

	return &QuizContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
