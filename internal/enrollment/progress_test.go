package enrollment_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/saulo-duarte/learnhub-lambda/internal/enrollment"
)

func done(id uuid.UUID, hasQuiz bool) enrollment.ModuleStatus {
	return enrollment.ModuleStatus{ModuleID: id, VideoWatched: true, TextRead: true, QuizPassed: hasQuiz, HasQuiz: hasQuiz}
}

func TestModuleStatusComplete(t *testing.T) {
	tests := []struct {
		name   string
		status enrollment.ModuleStatus
		want   bool
	}{
		{"NothingDone", enrollment.ModuleStatus{}, false},
		{"VideoOnly", enrollment.ModuleStatus{VideoWatched: true}, false},
		{"NoQuizVideoAndText", enrollment.ModuleStatus{VideoWatched: true, TextRead: true}, true},
		{"QuizNotPassed", enrollment.ModuleStatus{VideoWatched: true, TextRead: true, HasQuiz: true}, false},
		{"QuizPassed", enrollment.ModuleStatus{VideoWatched: true, TextRead: true, HasQuiz: true, QuizPassed: true}, true},
		{"QuizPassedTextMissing", enrollment.ModuleStatus{VideoWatched: true, HasQuiz: true, QuizPassed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Complete())
		})
	}
}

func TestPercentage(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("NoModules", func(t *testing.T) {
		assert.Equal(t, 0, enrollment.Percentage(nil, 0))
		assert.Equal(t, 0, enrollment.Percentage([]enrollment.ModuleStatus{done(a, false)}, 0))
	})

	t.Run("Floor", func(t *testing.T) {
		assert.Equal(t, 33, enrollment.Percentage([]enrollment.ModuleStatus{done(a, false)}, 3))
		assert.Equal(t, 66, enrollment.Percentage([]enrollment.ModuleStatus{done(a, false), done(b, true)}, 3))
	})

	t.Run("DuplicatesCountOnce", func(t *testing.T) {
		statuses := []enrollment.ModuleStatus{done(a, false), done(a, false), done(a, false)}
		assert.Equal(t, 33, enrollment.Percentage(statuses, 3))
	})

	t.Run("ClampedTo100", func(t *testing.T) {
		statuses := []enrollment.ModuleStatus{done(a, false), done(b, false), done(c, false)}
		assert.Equal(t, 100, enrollment.Percentage(statuses, 2))
	})

	t.Run("Monotonic", func(t *testing.T) {
		ids := []uuid.UUID{a, b, c}
		var statuses []enrollment.ModuleStatus
		prev := enrollment.Percentage(statuses, len(ids))
		for _, id := range ids {
			statuses = append(statuses, done(id, true))
			next := enrollment.Percentage(statuses, len(ids))
			assert.GreaterOrEqual(t, next, prev)
			prev = next
		}
		assert.True(t, enrollment.IsComplete(prev))
	})
}
