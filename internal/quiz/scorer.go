package quiz

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidSubmission = errors.New("submission references a question or answer outside this quiz")

// Submission maps question id to the chosen answer id. Missing questions are unanswered.
type Submission map[uuid.UUID]uuid.UUID

type QuestionResult struct {
	QuestionID    uuid.UUID
	AnswerID      *uuid.UUID
	Correct       bool
	PointsAwarded decimal.Decimal
}

func (r QuestionResult) Answered() bool {
	return r.AnswerID != nil
}

type Result struct {
	Questions  []QuestionResult
	TotalScore decimal.Decimal
	MaxScore   decimal.Decimal
	Threshold  decimal.NullDecimal
	Passed     bool
}

// Score grades a submission against key. It has no side effects: the same
// inputs always produce the same Result. A submission naming any unknown
// question or an answer of another question is rejected as a whole.
func Score(q *Quiz, key *AnswerKey, submitted Submission) (Result, error) {
	for questionID, answerID := range submitted {
		qk, ok := key.Question(questionID)
		if !ok {
			return Result{}, fmt.Errorf("%w: unknown question %s", ErrInvalidSubmission, questionID)
		}
		if !qk.HasAnswer(answerID) {
			return Result{}, fmt.Errorf("%w: answer %s does not belong to question %s", ErrInvalidSubmission, answerID, questionID)
		}
	}

	res := Result{
		Questions:  make([]QuestionResult, 0, key.Len()),
		TotalScore: decimal.Zero,
		MaxScore:   decimal.Zero,
	}
	if threshold, ok := q.PassThreshold(); ok {
		res.Threshold = decimal.NewNullDecimal(threshold)
	}

	for _, questionID := range key.Order() {
		qk, _ := key.Question(questionID)
		res.MaxScore = res.MaxScore.Add(qk.Points)

		qr := QuestionResult{QuestionID: questionID, PointsAwarded: decimal.Zero}
		if answerID, ok := submitted[questionID]; ok {
			chosen := answerID
			qr.AnswerID = &chosen
			if qk.Correct != nil && *qk.Correct == answerID {
				qr.Correct = true
				qr.PointsAwarded = qk.Points
				res.TotalScore = res.TotalScore.Add(qk.Points)
			}
		}
		res.Questions = append(res.Questions, qr)
	}

	res.TotalScore = res.TotalScore.Round(2)
	res.MaxScore = res.MaxScore.Round(2)
	res.Passed = res.Threshold.Valid && res.TotalScore.GreaterThanOrEqual(res.Threshold.Decimal)
	return res, nil
}

// XPForImprovement returns floor(max(0, score - previousBest)). Only gains over
// the learner's best earlier attempt are rewarded.
func XPForImprovement(score, previousBest decimal.Decimal) int {
	gain := score.Sub(previousBest)
	if !gain.IsPositive() {
		return 0
	}
	return int(gain.Floor().IntPart())
}
