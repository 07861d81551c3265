package certificate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/sirupsen/logrus"
)

var ErrInvalidID = errors.New("invalid id format")

type CertificateService interface {
	Issue(ctx context.Context, userID, courseID, enrollmentID uuid.UUID) (*Certificate, error)
	ListMine(ctx context.Context, actor auth.Actor) ([]Certificate, error)
	Verify(ctx context.Context, number string) (*Certificate, error)
	ListByCourse(ctx context.Context, courseID string) ([]Certificate, error)
}

type certificateService struct {
	repo CertificateRepository
	now  func() time.Time
}

func NewService(repo CertificateRepository) CertificateService {
	return &certificateService{repo: repo, now: time.Now}
}

func (s *certificateService) Issue(ctx context.Context, userID, courseID, enrollmentID uuid.UUID) (*Certificate, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"user_id":   userID,
		"course_id": courseID,
	})

	issuedAt := s.now().UTC()
	number, err := NewNumber(issuedAt)
	if err != nil {
		log.WithError(err).Error("Failed to generate certificate number")
		return nil, err
	}

	cert, err := s.repo.CreateIfAbsent(ctx, &Certificate{
		UserID:       userID,
		CourseID:     courseID,
		EnrollmentID: enrollmentID,
		Number:       number,
		IssuedAt:     issuedAt,
	})
	if err != nil {
		log.WithError(err).Error("Failed to issue certificate")
		return nil, err
	}

	log.WithField("number", cert.Number).Info("Certificate issued")
	return cert, nil
}

func (s *certificateService) ListMine(ctx context.Context, actor auth.Actor) ([]Certificate, error) {
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *certificateService) Verify(ctx context.Context, number string) (*Certificate, error) {
	return s.repo.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
}

func (s *certificateService) ListByCourse(ctx context.Context, courseID string) ([]Certificate, error) {
	id, err := uuid.Parse(courseID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.repo.ListByCourse(ctx, id)
}
