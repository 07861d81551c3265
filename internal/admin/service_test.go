package admin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/admin"
	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
	"github.com/saulo-duarte/learnhub-lambda/internal/quiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

type fakeCounts struct {
	certErr error
}

func (fakeCounts) CountByRole(ctx context.Context) (map[user.Role]int64, error) {
	return map[user.Role]int64{user.RoleUser: 7, user.RoleTrainer: 2, user.RoleAdmin: 1}, nil
}

func (fakeCounts) CountRegistered(ctx context.Context) (int64, error) { return 6, nil }

func (fakeCounts) CountCourses(ctx context.Context) (int64, int64, error) { return 4, 3, nil }

func (fakeCounts) CountByStatus(ctx context.Context) (map[enrollment.Status]int64, error) {
	return map[enrollment.Status]int64{enrollment.StatusInProgress: 5}, nil
}

func (fakeCounts) Stats(ctx context.Context) (*quiz.AttemptStats, error) {
	return &quiz.AttemptStats{Total: 10, Passed: 4, PassRate: 0.4}, nil
}

func (f fakeCounts) Count(ctx context.Context) (int64, error) { return 2, f.certErr }

func TestStats(t *testing.T) {
	f := fakeCounts{}
	svc := admin.NewService(f, f, f, f, f)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.UsersByRole[user.RoleUser])
	assert.Equal(t, int64(6), stats.RegisteredUsers)
	assert.Equal(t, int64(3), stats.PublishedCourses)
	assert.Len(t, stats.EnrollmentsByState, len(enrollment.AllStatuses))
	assert.Zero(t, stats.EnrollmentsByState[enrollment.StatusCompleted])
	assert.Equal(t, int64(5), stats.EnrollmentsByState[enrollment.StatusInProgress])
	assert.InDelta(t, 0.4, stats.Attempts.PassRate, 0.0001)
	assert.Equal(t, int64(2), stats.Certificates)
}

func TestStatsFailure(t *testing.T) {
	f := fakeCounts{certErr: errors.New("db down")}
	svc := admin.NewService(f, f, f, f, f)

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)

	rec := httptest.NewRecorder()
	admin.NewHandler(svc).Stats(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStatsHandler(t *testing.T) {
	f := fakeCounts{}
	rec := httptest.NewRecorder()
	admin.NewHandler(admin.NewService(f, f, f, f, f)).Stats(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 4, body["courses"])
}
