package enrollment_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/certificate"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
	"github.com/saulo-duarte/learnhub-lambda/internal/events"
	"github.com/saulo-duarte/learnhub-lambda/internal/testutil"
)

type quizIndex map[uuid.UUID]bool

func (q quizIndex) ModulesWithQuiz(ctx context.Context, moduleIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	for _, id := range moduleIDs {
		if q[id] {
			out[id] = true
		}
	}
	return out, nil
}

type xpLedger struct {
	mu    sync.Mutex
	total map[uuid.UUID]int
}

func (x *xpLedger) AwardXP(ctx context.Context, userID uuid.UUID, delta int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.total[userID] += delta
	return nil
}

type recorder struct {
	keys []string
}

func (r *recorder) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	r.keys = append(r.keys, routingKey)
	return nil
}

func (r *recorder) Close() error { return nil }

type fixture struct {
	svc     enrollment.EnrollmentService
	courses course.CourseService
	quizzes quizIndex
	xp      *xpLedger
	events  *recorder
	owner   auth.Actor
	learner auth.Actor
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t,
		&course.Course{}, &course.Module{},
		&enrollment.Enrollment{}, &enrollment.ModuleProgress{},
		&certificate.Certificate{},
	)

	f := &fixture{
		courses: course.NewService(course.NewRepository(db), course.Guards{}),
		quizzes: quizIndex{},
		xp:      &xpLedger{total: map[uuid.UUID]int{}},
		events:  &recorder{},
		owner:   auth.Actor{UserID: uuid.NewString(), Role: auth.RoleTrainer},
		learner: auth.Actor{UserID: uuid.NewString(), Role: auth.RoleUser},
	}
	f.svc = enrollment.NewService(
		enrollment.NewRepository(db),
		f.courses,
		f.quizzes,
		certificate.NewService(certificate.NewRepository(db)),
		f.xp,
		f.events,
	)
	return f
}

func (f *fixture) publishedCourse(t *testing.T, modules int) (*course.Course, []*course.Module) {
	ctx := context.Background()
	c, err := f.courses.CreateCourse(ctx, f.owner, course.CreateCourseDTO{Title: "Hazard Communication"})
	require.NoError(t, err)

	var mods []*course.Module
	for i := 0; i < modules; i++ {
		m, err := f.courses.AddModule(ctx, f.owner, c.ID.String(), course.ModuleDTO{Title: "Module"})
		require.NoError(t, err)
		mods = append(mods, m)
	}

	_, err = f.courses.SetPublished(ctx, f.owner, c.ID.String(), true)
	require.NoError(t, err)
	return c, mods
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, _ := f.publishedCourse(t, 1)

	first, err := f.svc.Enroll(ctx, f.learner, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusEnrolled, first.Status)

	second, err := f.svc.Enroll(ctx, f.learner, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	mine, err := f.svc.ListMine(ctx, f.learner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	t.Run("DraftCourse", func(t *testing.T) {
		draft, err := f.courses.CreateCourse(ctx, f.owner, course.CreateCourseDTO{Title: "Draft course"})
		require.NoError(t, err)

		_, err = f.svc.Enroll(ctx, f.learner, draft.ID.String())
		assert.ErrorIs(t, err, course.ErrNotPublished)
	})

	t.Run("NotEnrolledProgress", func(t *testing.T) {
		other := auth.Actor{UserID: uuid.NewString(), Role: auth.RoleUser}
		_, err := f.svc.GetProgress(ctx, other, c.ID.String())
		assert.ErrorIs(t, err, enrollment.ErrNotEnrolled)
	})
}

func TestProgressAndCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, mods := f.publishedCourse(t, 2)
	f.quizzes[mods[1].ID] = true

	_, err := f.svc.Enroll(ctx, f.learner, c.ID.String())
	require.NoError(t, err)
	learnerID := uuid.MustParse(f.learner.UserID)

	_, err = f.svc.MarkVideoWatched(ctx, f.learner, mods[0].ID.String())
	require.NoError(t, err)
	p, err := f.svc.MarkTextRead(ctx, f.learner, mods[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, 50, p.Percentage)
	assert.Equal(t, enrollment.StatusInProgress, p.Status)
	assert.True(t, p.Modules[0].Completed)

	_, err = f.svc.MarkVideoWatched(ctx, f.learner, mods[1].ID.String())
	require.NoError(t, err)
	p, err = f.svc.MarkTextRead(ctx, f.learner, mods[1].ID.String())
	require.NoError(t, err)
	assert.Equal(t, 50, p.Percentage, "module with an unpassed quiz is not complete")

	t.Run("FailedQuizKeepsProgress", func(t *testing.T) {
		require.NoError(t, f.svc.RecordQuizResult(ctx, learnerID, mods[1].ID, decimal.RequireFromString("1.50"), false))

		p, err := f.svc.GetProgress(ctx, f.learner, c.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 50, p.Percentage)
		assert.True(t, p.Modules[1].HighestQuizScore.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("PassCompletesCourse", func(t *testing.T) {
		require.NoError(t, f.svc.RecordQuizResult(ctx, learnerID, mods[1].ID, decimal.RequireFromString("3.50"), true))

		p, err := f.svc.GetProgress(ctx, f.learner, c.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 100, p.Percentage)
		assert.Equal(t, enrollment.StatusCompleted, p.Status)
		assert.NotNil(t, p.CompletedAt)

		assert.Equal(t, enrollment.CompletionBonusXP, f.xp.total[learnerID])
		assert.Equal(t, []string{events.CourseCompleted}, f.events.keys)
	})

	t.Run("ProgressNeverRegresses", func(t *testing.T) {
		require.NoError(t, f.svc.RecordQuizResult(ctx, learnerID, mods[1].ID, decimal.RequireFromString("0.50"), false))

		p, err := f.svc.GetProgress(ctx, f.learner, c.ID.String())
		require.NoError(t, err)
		assert.True(t, p.Modules[1].QuizPassed)
		assert.True(t, p.Modules[1].HighestQuizScore.Equal(decimal.RequireFromString("3.5")))
		assert.Equal(t, 100, p.Percentage)
	})

	t.Run("CompletionRewardedOnce", func(t *testing.T) {
		_, err := f.svc.MarkVideoWatched(ctx, f.learner, mods[0].ID.String())
		require.NoError(t, err)

		assert.Equal(t, enrollment.CompletionBonusXP, f.xp.total[learnerID])
		assert.Len(t, f.events.keys, 1)
	})
}

func TestUnenroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, mods := f.publishedCourse(t, 1)

	e, err := f.svc.Enroll(ctx, f.learner, c.ID.String())
	require.NoError(t, err)
	_, err = f.svc.MarkVideoWatched(ctx, f.learner, mods[0].ID.String())
	require.NoError(t, err)

	counts, err := f.svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[enrollment.StatusInProgress])

	require.NoError(t, f.svc.Unenroll(ctx, e.ID.String()))
	assert.ErrorIs(t, f.svc.Unenroll(ctx, e.ID.String()), enrollment.ErrEnrollmentNotFound)

	_, err = f.svc.MarkTextRead(ctx, f.learner, mods[0].ID.String())
	assert.ErrorIs(t, err, enrollment.ErrNotEnrolled)
}
