package course_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/course"
	"github.com/saulo-duarte/learnhub-lambda/internal/testutil"
)

func newService(t *testing.T) course.CourseService {
	db := testutil.NewDB(t, &course.Course{}, &course.Module{})
	return course.NewService(course.NewRepository(db), course.Guards{})
}

func trainer() auth.Actor {
	return auth.Actor{UserID: uuid.NewString(), Role: auth.RoleTrainer}
}

func TestCourseVisibility(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	owner := trainer()
	learner := auth.Actor{UserID: uuid.NewString(), Role: auth.RoleUser}

	draft, err := svc.CreateCourse(ctx, owner, course.CreateCourseDTO{Title: "Warehouse Safety"})
	require.NoError(t, err)
	assert.False(t, draft.Published)

	t.Run("LearnerCannotSeeDraft", func(t *testing.T) {
		_, err := svc.GetCourse(ctx, learner, draft.ID.String())
		assert.ErrorIs(t, err, course.ErrCourseNotFound)

		list, err := svc.ListCourses(ctx, learner)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("StaffSeesDraft", func(t *testing.T) {
		list, err := svc.ListCourses(ctx, trainer())
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("PublishedIsVisible", func(t *testing.T) {
		published, err := svc.SetPublished(ctx, owner, draft.ID.String(), true)
		require.NoError(t, err)
		assert.NotNil(t, published.PublishedAt)

		got, err := svc.GetCourse(ctx, learner, draft.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Warehouse Safety", got.Title)

		_, err = svc.GetPublishedCourse(ctx, draft.ID)
		assert.NoError(t, err)
	})

	t.Run("UnpublishedRejectedForEnrollment", func(t *testing.T) {
		_, err := svc.SetPublished(ctx, owner, draft.ID.String(), false)
		require.NoError(t, err)

		_, err = svc.GetPublishedCourse(ctx, draft.ID)
		assert.ErrorIs(t, err, course.ErrNotPublished)
	})
}

func TestCourseOwnership(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	owner := trainer()

	c, err := svc.CreateCourse(ctx, owner, course.CreateCourseDTO{Title: "Forklift Basics"})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.UpdateCourse(ctx, trainer(), c.ID.String(), course.UpdateCourseDTO{Title: &title})
	assert.ErrorIs(t, err, course.ErrForbidden)

	admin := auth.Actor{UserID: uuid.NewString(), Role: auth.RoleAdmin}
	updated, err := svc.UpdateCourse(ctx, admin, c.ID.String(), course.UpdateCourseDTO{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	_, err = svc.GetCourse(ctx, owner, "not-a-uuid")
	assert.ErrorIs(t, err, course.ErrInvalidID)
}

func TestModules(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	owner := trainer()

	c, err := svc.CreateCourse(ctx, owner, course.CreateCourseDTO{Title: "First Aid"})
	require.NoError(t, err)

	var ids []string
	for _, title := range []string{"Assessment", "CPR", "Bleeding"} {
		m, err := svc.AddModule(ctx, owner, c.ID.String(), course.ModuleDTO{Title: title})
		require.NoError(t, err)
		ids = append(ids, m.ID.String())
	}

	count, err := svc.CountModules(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	t.Run("AppendedInOrder", func(t *testing.T) {
		got, err := svc.GetCourse(ctx, owner, c.ID.String())
		require.NoError(t, err)
		require.Len(t, got.Modules, 3)
		assert.Equal(t, "Assessment", got.Modules[0].Title)
		assert.Equal(t, 2, got.Modules[2].OrderIndex)
	})

	t.Run("Reorder", func(t *testing.T) {
		got, err := svc.ReorderModules(ctx, owner, c.ID.String(), course.ReorderModulesDTO{
			ModuleIDs: []string{ids[2], ids[0], ids[1]},
		})
		require.NoError(t, err)
		assert.Equal(t, "Bleeding", got.Modules[0].Title)
		assert.Equal(t, "CPR", got.Modules[2].Title)

		moduleIDs, err := svc.ModuleIDs(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, ids[2], moduleIDs[0].String())
	})

	t.Run("ReorderRejectsPartialList", func(t *testing.T) {
		_, err := svc.ReorderModules(ctx, owner, c.ID.String(), course.ReorderModulesDTO{
			ModuleIDs: []string{ids[0], ids[0], ids[1]},
		})
		assert.ErrorIs(t, err, course.ErrInvalidOrdering)
	})

	t.Run("DeleteModule", func(t *testing.T) {
		require.NoError(t, svc.DeleteModule(ctx, owner, ids[1]))

		err := svc.DeleteModule(ctx, owner, ids[1])
		assert.ErrorIs(t, err, course.ErrModuleNotFound)

		count, err := svc.CountModules(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("DeleteCourseRemovesModules", func(t *testing.T) {
		require.NoError(t, svc.DeleteCourse(ctx, owner, c.ID.String()))

		count, err := svc.CountModules(ctx, c.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

type stubGuard map[uuid.UUID]bool

func (g stubGuard) CourseInUse(ctx context.Context, id uuid.UUID) (bool, error) { return g[id], nil }
func (g stubGuard) ModuleInUse(ctx context.Context, id uuid.UUID) (bool, error) { return g[id], nil }

func TestDeleteGuards(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &course.Course{}, &course.Module{})
	inUse := stubGuard{}
	svc := course.NewService(course.NewRepository(db), course.Guards{
		Courses: []course.CourseGuard{inUse},
		Modules: []course.ModuleGuard{inUse},
	})
	owner := trainer()

	c, err := svc.CreateCourse(ctx, owner, course.CreateCourseDTO{Title: "Ladder Safety"})
	require.NoError(t, err)
	m, err := svc.AddModule(ctx, owner, c.ID.String(), course.ModuleDTO{Title: "Three points of contact"})
	require.NoError(t, err)

	inUse[c.ID] = true
	inUse[m.ID] = true

	assert.ErrorIs(t, svc.DeleteModule(ctx, owner, m.ID.String()), course.ErrModuleInUse)
	assert.ErrorIs(t, svc.DeleteCourse(ctx, owner, c.ID.String()), course.ErrCourseInUse)

	delete(inUse, m.ID)
	require.NoError(t, svc.DeleteModule(ctx, owner, m.ID.String()))

	delete(inUse, c.ID)
	require.NoError(t, svc.DeleteCourse(ctx, owner, c.ID.String()))
}
