package aiquiz_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/learnhub-lambda/internal/aiquiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
	"github.com/saulo-duarte/learnhub-lambda/internal/quiz"
	"github.com/saulo-duarte/learnhub-lambda/internal/testutil"
)

type stubProvider struct {
	questions []aiquiz.GeneratedQuestion
	prompts   []string
}

func (p *stubProvider) SendPrompt(ctx context.Context, system, user string) ([]aiquiz.GeneratedQuestion, error) {
	p.prompts = append(p.prompts, user)
	return p.questions, nil
}

func (p *stubProvider) Model() string { return "stub-model" }

type recordingAuthor struct {
	quizID string
	dto    quiz.AddQuestionsDTO
}

func (a *recordingAuthor) AddQuestions(ctx context.Context, actor auth.Actor, quizID string, dto quiz.AddQuestionsDTO) (*quiz.Quiz, error) {
	a.quizID, a.dto = quizID, dto
	return &quiz.Quiz{ID: uuid.MustParse(quizID)}, nil
}

func generated(text string, correct int, answers int) aiquiz.GeneratedQuestion {
	q := aiquiz.GeneratedQuestion{Text: text, CorrectIndex: correct, Explanation: "because"}
	for i := 0; i < answers; i++ {
		q.Answers = append(q.Answers, "option")
	}
	return q
}

func TestGenerateAndImport(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t, &aiquiz.Draft{})
	provider := &stubProvider{questions: []aiquiz.GeneratedQuestion{
		generated("Which extinguisher for electrical fires?", 2, 4),
		generated("Only three answers", 0, 3),
		generated("Correct index out of range", 4, 4),
		generated("What does PASS stand for?", 0, 4),
	}}
	author := &recordingAuthor{}
	svc := aiquiz.NewService(provider, aiquiz.NewRepository(db), author)
	trainer := auth.Actor{UserID: uuid.NewString(), Role: auth.RoleTrainer}

	draft, err := svc.Generate(ctx, trainer, aiquiz.GenerateDTO{Topic: "Fire safety", Difficulty: "easy", Count: 5})
	require.NoError(t, err)
	require.Len(t, draft.Questions, 2, "malformed questions are dropped")
	assert.Contains(t, provider.prompts[0], "Write 5 easy questions")

	t.Run("OtherTrainerCannotRead", func(t *testing.T) {
		other := auth.Actor{UserID: uuid.NewString(), Role: auth.RoleTrainer}
		_, err := svc.GetDraft(ctx, other, draft.ID.String())
		assert.ErrorIs(t, err, aiquiz.ErrForbidden)
	})

	t.Run("IndexOutOfRange", func(t *testing.T) {
		_, err := svc.Import(ctx, trainer, draft.ID.String(), aiquiz.ImportDTO{QuizID: uuid.NewString(), Indexes: []int{7}})
		assert.ErrorIs(t, err, aiquiz.ErrIndexOutOfRange)
	})

	t.Run("ImportSelected", func(t *testing.T) {
		quizID := uuid.NewString()
		_, err := svc.Import(ctx, trainer, draft.ID.String(), aiquiz.ImportDTO{QuizID: quizID, Indexes: []int{1}})
		require.NoError(t, err)

		assert.Equal(t, quizID, author.quizID)
		require.Len(t, author.dto.Questions, 1)
		q := author.dto.Questions[0]
		assert.Equal(t, "What does PASS stand for?", q.Text)
		assert.Equal(t, "1", q.Points.String())
		assert.True(t, q.Answers[0].IsCorrect)
		assert.False(t, q.Answers[1].IsCorrect)

		got, err := svc.GetDraft(ctx, trainer, draft.ID.String())
		require.NoError(t, err)
		assert.True(t, got.Imported)
	})
}

func TestGenerateWithoutProvider(t *testing.T) {
	db := testutil.NewDB(t, &aiquiz.Draft{})
	svc := aiquiz.NewService(nil, aiquiz.NewRepository(db), &recordingAuthor{})

	_, err := svc.Generate(context.Background(), auth.Actor{UserID: uuid.NewString()}, aiquiz.GenerateDTO{Topic: "x", Difficulty: "easy"})
	assert.ErrorIs(t, err, aiquiz.ErrProviderUnavailable)
}

func TestGenerateNothingUsable(t *testing.T) {
	db := testutil.NewDB(t, &aiquiz.Draft{})
	provider := &stubProvider{questions: []aiquiz.GeneratedQuestion{generated("bad", 0, 2)}}
	svc := aiquiz.NewService(provider, aiquiz.NewRepository(db), &recordingAuthor{})

	_, err := svc.Generate(context.Background(), auth.Actor{UserID: uuid.NewString()}, aiquiz.GenerateDTO{Topic: "Ladders", Difficulty: "hard"})
	assert.ErrorIs(t, err, aiquiz.ErrNoUsableQuestions)
}

func TestBuildUserPromptClampsCount(t *testing.T) {
	assert.Contains(t, aiquiz.BuildUserPrompt(aiquiz.GenerateDTO{Topic: "PPE", Difficulty: "medium"}), "Write 3 medium")
	assert.Contains(t, aiquiz.BuildUserPrompt(aiquiz.GenerateDTO{Topic: "PPE", Difficulty: "hard", Count: 40}), "Write 10 hard")
}
