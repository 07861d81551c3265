package admin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
	"github.com/saulo-duarte/learnhub-lambda/internal/quiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

type UserCounter interface {
	CountByRole(ctx context.Context) (map[user.Role]int64, error)
	CountRegistered(ctx context.Context) (int64, error)
}

type CourseCounter interface {
	CountCourses(ctx context.Context) (total int64, published int64, err error)
}

type EnrollmentCounter interface {
	CountByStatus(ctx context.Context) (map[enrollment.Status]int64, error)
}

type AttemptCounter interface {
	Stats(ctx context.Context) (*quiz.AttemptStats, error)
}

type CertificateCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Stats struct {
	UsersByRole        map[user.Role]int64         `json:"users_by_role"`
	RegisteredUsers    int64                       `json:"registered_users"`
	Courses            int64                       `json:"courses"`
	PublishedCourses   int64                       `json:"published_courses"`
	EnrollmentsByState map[enrollment.Status]int64 `json:"enrollments_by_status"`
	Attempts           quiz.AttemptStats           `json:"attempts"`
	Certificates       int64                       `json:"certificates"`
}

type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	users        UserCounter
	courses      CourseCounter
	enrollments  EnrollmentCounter
	attempts     AttemptCounter
	certificates CertificateCounter
}

func NewService(
	users UserCounter,
	courses CourseCounter,
	enrollments EnrollmentCounter,
	attempts AttemptCounter,
	certificates CertificateCounter,
) StatsService {
	return &statsService{
		users:        users,
		courses:      courses,
		enrollments:  enrollments,
		attempts:     attempts,
		certificates: certificates,
	}
}

func (s *statsService) Stats(ctx context.Context) (*Stats, error) {
	out := &Stats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.UsersByRole, err = s.users.CountByRole(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.RegisteredUsers, err = s.users.CountRegistered(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Courses, out.PublishedCourses, err = s.courses.CountCourses(gctx)
		return err
	})
	g.Go(func() (err error) {
		byStatus, err := s.enrollments.CountByStatus(gctx)
		if err != nil {
			return err
		}
		// Every status is reported, including those nobody is in.
		out.EnrollmentsByState = make(map[enrollment.Status]int64, len(enrollment.AllStatuses))
		for _, st := range enrollment.AllStatuses {
			out.EnrollmentsByState[st] = byStatus[st]
		}
		return nil
	})
	g.Go(func() error {
		stats, err := s.attempts.Stats(gctx)
		if err != nil {
			return err
		}
		out.Attempts = *stats
		return nil
	})
	g.Go(func() (err error) {
		out.Certificates, err = s.certificates.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to collect admin stats")
		return nil, err
	}
	return out, nil
}
