package quiz

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrAmbiguousAnswerKey = errors.New("question has more than one correct answer")

// QuestionKey is the grading data of one question.
type QuestionKey struct {
	QuestionID uuid.UUID
	Points     decimal.Decimal
	// Correct is nil when no answer is flagged correct; such a question scores 0.
	Correct *uuid.UUID
	valid   map[uuid.UUID]struct{}
}

func (k QuestionKey) HasAnswer(answerID uuid.UUID) bool {
	_, ok := k.valid[answerID]
	return ok
}

// AnswerKey is an immutable lookup from question id to its grading data,
// in question order.
type AnswerKey struct {
	byQuestion map[uuid.UUID]QuestionKey
	order      []uuid.UUID
}

func NewAnswerKey(questions []Question) (*AnswerKey, error) {
	sorted := make([]Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	key := &AnswerKey{
		byQuestion: make(map[uuid.UUID]QuestionKey, len(sorted)),
		order:      make([]uuid.UUID, 0, len(sorted)),
	}

	for _, q := range sorted {
		qk := QuestionKey{
			QuestionID: q.ID,
			Points:     q.Points,
			valid:      make(map[uuid.UUID]struct{}, len(q.Answers)),
		}
		for _, a := range q.Answers {
			qk.valid[a.ID] = struct{}{}
			if !a.IsCorrect {
				continue
			}
			if qk.Correct != nil {
				return nil, fmt.Errorf("%w: question %s", ErrAmbiguousAnswerKey, q.ID)
			}
			id := a.ID
			qk.Correct = &id
		}

		key.byQuestion[q.ID] = qk
		key.order = append(key.order, q.ID)
	}
	return key, nil
}

func (k *AnswerKey) Question(id uuid.UUID) (QuestionKey, bool) {
	qk, ok := k.byQuestion[id]
	return qk, ok
}

func (k *AnswerKey) Len() int {
	return len(k.order)
}

func (k *AnswerKey) Order() []uuid.UUID {
	out := make([]uuid.UUID, len(k.order))
	copy(out, k.order)
	return out
}
