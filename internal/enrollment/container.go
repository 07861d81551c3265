package enrollment

import (
	"github.com/saulo-duarte/learnhub-lambda/internal/events"
)

type EnrollmentContainer struct {
	Repo    EnrollmentRepository
	Service EnrollmentService
	Handler *Handler
}

// NewEnrollmentContainer takes the repository from the caller because the course
// service consults it before deleting a course.
func NewEnrollmentContainer(
	repo EnrollmentRepository,
	catalog Catalog,
	quizzes QuizIndex,
	certificates CertificateIssuer,
	xp XPAwarder,
	publisher events.Publisher,
) *EnrollmentContainer {
	service := NewService(repo, catalog, quizzes, certificates, xp, publisher)
	handler := NewHandler(service)

	return &EnrollmentContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
