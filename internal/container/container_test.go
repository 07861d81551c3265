package container_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/container"
	"github.com/saulo-duarte/learnhub-lambda/internal/events"
	"github.com/saulo-duarte/learnhub-lambda/internal/testutil"
	"github.com/saulo-duarte/learnhub-lambda/internal/user"
)

type client struct {
	t       *testing.T
	handler http.Handler
}

func (c client) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, id uuid.UUID, role string) string {
	tok, err := auth.GenerateJWT(id.String(), role, time.Hour)
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestCourseCompletionOverHTTP(t *testing.T) {
	testutil.InitAuth(t)
	db := testutil.NewDB(t, container.Models()...)
	c := container.Build(db, events.NoopPublisher{}, nil)
	api := client{t: t, handler: c.Router()}

	learner := &user.User{NIK: "5100001", Name: "Dewi Lestari", Role: user.RoleUser, Registered: true}
	require.NoError(t, c.UserContainer.Repo.Create(context.Background(), learner))

	trainerTok := token(t, uuid.New(), auth.RoleTrainer)
	learnerTok := token(t, learner.ID, auth.RoleUser)
	adminTok := token(t, uuid.New(), auth.RoleAdmin)

	t.Run("Health", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil).Code)
	})

	t.Run("AuthRequired", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/courses", "", nil).Code)
	})

	t.Run("LearnerCannotAuthor", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/courses", learnerTok, map[string]string{"title": "Nope"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	rec := api.do(http.MethodPost, "/courses", trainerTok, map[string]string{"title": "Forklift Basics"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	decode(t, rec, &created)

	rec = api.do(http.MethodPost, "/courses/"+created.ID+"/modules", trainerTok, map[string]string{"title": "Pre-use checks"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var module struct {
		ID string `json:"id"`
	}
	decode(t, rec, &module)

	t.Run("DraftNotEnrollable", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/courses/"+created.ID+"/enroll", learnerTok, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/courses/"+created.ID+"/publish", trainerTok, nil).Code)
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/courses/"+created.ID+"/enroll", learnerTok, nil).Code)

	rec = api.do(http.MethodPost, "/modules/"+module.ID+"/video-watched", learnerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = api.do(http.MethodPost, "/modules/"+module.ID+"/text-read", learnerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var progress struct {
		Status     string `json:"status"`
		Percentage int    `json:"percentage"`
	}
	decode(t, rec, &progress)
	assert.Equal(t, 100, progress.Percentage)
	assert.Equal(t, "COMPLETED", progress.Status)

	t.Run("CourseWithEnrollmentsIsKept", func(t *testing.T) {
		rec := api.do(http.MethodDelete, "/courses/"+created.ID, trainerTok, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("CertificateIsPubliclyVerifiable", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/certificates", learnerTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var certs []struct {
			Number string `json:"number"`
		}
		decode(t, rec, &certs)
		require.Len(t, certs, 1)

		assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/certificates/"+certs[0].Number, "", nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/certificates/CERT-20260101-ABCDEFGH", "", nil).Code)
	})

	t.Run("CompletionBonusRanksLearner", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/leaderboard/me", learnerTok, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var me struct {
			Rank int `json:"rank"`
			XP   int `json:"xp"`
		}
		decode(t, rec, &me)
		assert.Equal(t, 1, me.Rank)
		assert.Equal(t, 100, me.XP)
	})

	t.Run("AdminStats", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/admin/stats", learnerTok, nil).Code)

		rec := api.do(http.MethodGet, "/admin/stats", adminTok, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var stats struct {
			PublishedCourses int64            `json:"published_courses"`
			Enrollments      map[string]int64 `json:"enrollments_by_status"`
			Certificates     int64            `json:"certificates"`
		}
		decode(t, rec, &stats)
		assert.EqualValues(t, 1, stats.PublishedCourses)
		assert.EqualValues(t, 1, stats.Enrollments["COMPLETED"])
		assert.EqualValues(t, 1, stats.Certificates)
	})

	t.Run("GoogleSignInDisabledWithoutCredentials", func(t *testing.T) {
		assert.Equal(t, http.StatusServiceUnavailable, api.do(http.MethodGet, "/auth/google/url", "", nil).Code)
	})
}
