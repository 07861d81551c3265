package leaderboard_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/saulo-duarte/learnhub-lambda/internal/leaderboard"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestRankTiesArePositional(t *testing.T) {
	u := ids(3)
	entries := []leaderboard.Entry{
		{UserID: u[0], XP: 100},
		{UserID: u[1], XP: 100},
		{UserID: u[2], XP: 50},
	}

	ranked := leaderboard.Rank(entries)

	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
	assert.Equal(t, u[0], ranked[0].UserID)
	assert.Equal(t, u[1], ranked[1].UserID)
	assert.Equal(t, u[2], ranked[2].UserID)
}

func TestRankIsStable(t *testing.T) {
	u := ids(5)
	entries := []leaderboard.Entry{
		{UserID: u[0], XP: 10},
		{UserID: u[1], XP: 30},
		{UserID: u[2], XP: 10},
		{UserID: u[3], XP: 30},
		{UserID: u[4], XP: 20},
	}

	want := leaderboard.Rank(entries)
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, leaderboard.Rank(entries))
	}

	order := make([]uuid.UUID, len(want))
	for i, e := range want {
		order[i] = e.UserID
	}
	assert.Equal(t, []uuid.UUID{u[1], u[3], u[4], u[0], u[2]}, order)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	u := ids(2)
	entries := []leaderboard.Entry{{UserID: u[0], XP: 1}, {UserID: u[1], XP: 2}}

	leaderboard.Rank(entries)
	assert.Equal(t, u[0], entries[0].UserID)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, leaderboard.Rank(nil))
}
