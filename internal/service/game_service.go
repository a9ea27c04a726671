package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/models"
)

// GameQuestionRepository is the question slice the game flow reads.
type GameQuestionRepository interface {
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	GetOption(ctx context.Context, questionID, optionID uuid.UUID) (*models.Option, error)
	ListActiveQuestions(ctx context.Context, categoryID uuid.UUID, limit int) ([]models.Question, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
}

// GameAttemptRepository records graded attempts and serves play stats.
type GameAttemptRepository interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	GetStats(ctx context.Context, userID uuid.UUID) (*models.GameStats, error)
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Attempt, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// GameService grades answers and records immutable attempts. A correct
// answer earns the question's point value, a wrong one earns zero; either
// way the attempt is written once and never touched again.
type GameService struct {
	questions GameQuestionRepository
	attempts  GameAttemptRepository
}

// NewGameService creates the game service.
func NewGameService(questions GameQuestionRepository, attempts GameAttemptRepository) *GameService {
	return &GameService{questions: questions, attempts: attempts}
}

// AnswerResult is the graded outcome returned to the player.
type AnswerResult struct {
	Attempt      *models.Attempt `json:"attempt"`
	IsCorrect    bool            `json:"is_correct"`
	PointsEarned int64           `json:"points_earned"`
}

// SubmitAnswer grades one answer and appends it to the attempt log.
func (s *GameService) SubmitAnswer(ctx context.Context, userID, questionID, optionID uuid.UUID) (*AnswerResult, error) {
	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !question.IsActive {
		return nil, ErrQuestionInactive
	}

	option, err := s.questions.GetOption(ctx, questionID, optionID)
	if err != nil {
		return nil, err
	}

	var points int64
	if option.IsCorrect {
		points = question.Points
	}

	attempt := &models.Attempt{
		UserID:       userID,
		QuestionID:   questionID,
		OptionID:     optionID,
		IsCorrect:    option.IsCorrect,
		PointsEarned: points,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	return &AnswerResult{
		Attempt:      attempt,
		IsCorrect:    option.IsCorrect,
		PointsEarned: points,
	}, nil
}

// QuizBatch returns random active questions for the quiz screen with the
// correctness flags stripped: the client never learns the answer key.
func (s *GameService) QuizBatch(ctx context.Context, categoryID uuid.UUID, limit int) ([]models.Question, error) {
	questions, err := s.questions.ListActiveQuestions(ctx, categoryID, limit)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		for j := range questions[i].Options {
			questions[i].Options[j].IsCorrect = false
		}
	}
	return questions, nil
}

// Categories lists the active categories.
func (s *GameService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.questions.ListCategories(ctx, true)
}

// Stats returns a user's play statistics.
func (s *GameService) Stats(ctx context.Context, userID uuid.UUID) (*models.GameStats, error) {
	return s.attempts.GetStats(ctx, userID)
}

// RecentAttempts returns the newest attempts for a user.
func (s *GameService) RecentAttempts(ctx context.Context, userID uuid.UUID, limit int) ([]models.Attempt, error) {
	return s.attempts.ListRecentByUser(ctx, userID, limit)
}

// Leaderboard ranks the top earners.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return s.attempts.Leaderboard(ctx, limit)
}
