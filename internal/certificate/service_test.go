package certificate_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/certificate"
	"github.com/saulo-duarte/learnhub-lambda/internal/testutil"
)

var numberPattern = regexp.MustCompile(`^CERT-\d{8}-[A-Z2-9]{8}$`)

func TestNewNumber(t *testing.T) {
	day := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)

	n, err := certificate.NewNumber(day)
	require.NoError(t, err)
	assert.Regexp(t, numberPattern, n)
	assert.Equal(t, "CERT-20260309-", n[:14])
}

func TestIssueIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &certificate.Certificate{})
	svc := certificate.NewService(certificate.NewRepository(db))

	userID, courseID := uuid.New(), uuid.New()

	first, err := svc.Issue(ctx, userID, courseID, uuid.New())
	require.NoError(t, err)
	second, err := svc.Issue(ctx, userID, courseID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, first.Number, second.Number)
	assert.Equal(t, first.ID, second.ID)

	mine, err := svc.ListMine(ctx, auth.Actor{UserID: userID.String(), Role: auth.RoleUser})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	t.Run("Verify", func(t *testing.T) {
		got, err := svc.Verify(ctx, " "+first.Number+" ")
		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)

		_, err = svc.Verify(ctx, "CERT-00000000-AAAAAAAA")
		assert.ErrorIs(t, err, certificate.ErrCertificateNotFound)
	})

	t.Run("ListByCourse", func(t *testing.T) {
		_, err := svc.Issue(ctx, uuid.New(), courseID, uuid.New())
		require.NoError(t, err)

		certs, err := svc.ListByCourse(ctx, courseID.String())
		require.NoError(t, err)
		assert.Len(t, certs, 2)

		_, err = svc.ListByCourse(ctx, "bad")
		assert.ErrorIs(t, err, certificate.ErrInvalidID)
	})
}
