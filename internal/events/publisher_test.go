package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saulo-duarte/learnhub-lambda/internal/events"
)

type failingPublisher struct {
	calls int
}

func (f *failingPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	f.calls++
	return errors.New("broker unavailable")
}

func (f *failingPublisher) Close() error { return nil }

func TestEmitSwallowsErrors(t *testing.T) {
	p := &failingPublisher{}

	assert.NotPanics(t, func() {
		events.Emit(context.Background(), p, events.CourseCompleted, events.CourseCompletedEvent{UserID: "u1"})
	})
	assert.Equal(t, 1, p.calls)
}

func TestEmitNilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		events.Emit(context.Background(), nil, events.QuizAttemptSubmitted, nil)
	})
}

func TestNoopPublisher(t *testing.T) {
	var p events.Publisher = events.NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), events.CourseCompleted, map[string]string{"a": "b"}))
	assert.NoError(t, p.Close())
}
