package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
)

type fakeQuestionStore struct {
	questions map[uuid.UUID]*models.Question
	options   map[uuid.UUID]*models.Option
	batch     []models.Question
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		questions: make(map[uuid.UUID]*models.Question),
		options:   make(map[uuid.UUID]*models.Option),
	}
}

func (f *fakeQuestionStore) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	if q, ok := f.questions[id]; ok {
		return q, nil
	}
	return nil, repository.ErrQuestionNotFound
}

func (f *fakeQuestionStore) GetOption(ctx context.Context, questionID, optionID uuid.UUID) (*models.Option, error) {
	if o, ok := f.options[optionID]; ok && o.QuestionID == questionID {
		return o, nil
	}
	return nil, repository.ErrOptionNotFound
}

func (f *fakeQuestionStore) ListActiveQuestions(ctx context.Context, categoryID uuid.UUID, limit int) ([]models.Question, error) {
	return f.batch, nil
}

func (f *fakeQuestionStore) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return nil, nil
}

type fakeAttemptStore struct {
	attempts []*models.Attempt
	answered map[string]bool
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{answered: make(map[string]bool)}
}

func (f *fakeAttemptStore) Create(ctx context.Context, attempt *models.Attempt) error {
	key := attempt.UserID.String() + "/" + attempt.QuestionID.String()
	if f.answered[key] {
		return repository.ErrAlreadyAnswered
	}
	f.answered[key] = true
	attempt.ID = uuid.New()
	f.attempts = append(f.attempts, attempt)
	return nil
}

func (f *fakeAttemptStore) GetStats(ctx context.Context, userID uuid.UUID) (*models.GameStats, error) {
	return &models.GameStats{}, nil
}

func (f *fakeAttemptStore) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Attempt, error) {
	return nil, nil
}

func (f *fakeAttemptStore) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return nil, nil
}

func seedQuestion(store *fakeQuestionStore, points int64, active bool) (*models.Question, *models.Option, *models.Option) {
	question := &models.Question{ID: uuid.New(), Points: points, IsActive: active}
	right := &models.Option{ID: uuid.New(), QuestionID: question.ID, IsCorrect: true}
	wrong := &models.Option{ID: uuid.New(), QuestionID: question.ID, IsCorrect: false}
	store.questions[question.ID] = question
	store.options[right.ID] = right
	store.options[wrong.ID] = wrong
	return question, right, wrong
}

func TestGameService_SubmitAnswer_Correct(t *testing.T) {
	questions := newFakeQuestionStore()
	attempts := newFakeAttemptStore()
	question, right, _ := seedQuestion(questions, 50, true)

	svc := NewGameService(questions, attempts)
	result, err := svc.SubmitAnswer(context.Background(), uuid.New(), question.ID, right.ID)

	assert.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, int64(50), result.PointsEarned)
	assert.Len(t, attempts.attempts, 1)
}

func TestGameService_SubmitAnswer_Wrong(t *testing.T) {
	questions := newFakeQuestionStore()
	attempts := newFakeAttemptStore()
	question, _, wrong := seedQuestion(questions, 50, true)

	svc := NewGameService(questions, attempts)
	result, err := svc.SubmitAnswer(context.Background(), uuid.New(), question.ID, wrong.ID)

	assert.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, int64(0), result.PointsEarned)
	// A wrong answer is still recorded; the attempt log is the audit trail.
	assert.Len(t, attempts.attempts, 1)
}

func TestGameService_SubmitAnswer_InactiveQuestion(t *testing.T) {
	questions := newFakeQuestionStore()
	attempts := newFakeAttemptStore()
	question, right, _ := seedQuestion(questions, 50, false)

	svc := NewGameService(questions, attempts)
	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), question.ID, right.ID)

	assert.ErrorIs(t, err, ErrQuestionInactive)
	assert.Empty(t, attempts.attempts)
}

func TestGameService_SubmitAnswer_WrongQuestionOption(t *testing.T) {
	questions := newFakeQuestionStore()
	attempts := newFakeAttemptStore()
	questionA, _, _ := seedQuestion(questions, 50, true)
	_, rightB, _ := seedQuestion(questions, 30, true)

	svc := NewGameService(questions, attempts)
	_, err := svc.SubmitAnswer(context.Background(), uuid.New(), questionA.ID, rightB.ID)

	assert.ErrorIs(t, err, repository.ErrOptionNotFound)
}

func TestGameService_SubmitAnswer_Repeat(t *testing.T) {
	questions := newFakeQuestionStore()
	attempts := newFakeAttemptStore()
	question, right, _ := seedQuestion(questions, 50, true)
	userID := uuid.New()

	svc := NewGameService(questions, attempts)
	_, err := svc.SubmitAnswer(context.Background(), userID, question.ID, right.ID)
	assert.NoError(t, err)

	_, err = svc.SubmitAnswer(context.Background(), userID, question.ID, right.ID)
	assert.ErrorIs(t, err, repository.ErrAlreadyAnswered)
}

func TestGameService_QuizBatch_StripsAnswerKey(t *testing.T) {
	questions := newFakeQuestionStore()
	questions.batch = []models.Question{
		{
			ID: uuid.New(),
			Options: []models.Option{
				{ID: uuid.New(), IsCorrect: true},
				{ID: uuid.New(), IsCorrect: false},
			},
		},
	}

	svc := NewGameService(questions, newFakeAttemptStore())
	batch, err := svc.QuizBatch(context.Background(), uuid.New(), 10)

	assert.NoError(t, err)
	for _, q := range batch {
		for _, o := range q.Options {
			assert.False(t, o.IsCorrect)
		}
	}
}
