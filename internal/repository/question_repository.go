package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository/common"
)

type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// --- Categories ---

func (r *QuestionRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.GetContext(ctx, category, `
		INSERT INTO categories (name, slug, is_active)
		VALUES ($1, $2, $3)
		RETURNING *
	`, category.Name, category.Slug, category.IsActive)
}

func (r *QuestionRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $2, slug = $3, is_active = $4, updated_at = NOW() WHERE id = $1
	`, category.ID, category.Name, category.Slug, category.IsActive)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *QuestionRepository) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, "categories", id, ErrCategoryNotFound)
}

func (r *QuestionRepository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var categories []models.Category
	query := `SELECT * FROM categories ORDER BY name`
	if activeOnly {
		query = `SELECT * FROM categories WHERE is_active ORDER BY name`
	}
	err := r.db.SelectContext(ctx, &categories, query)
	return categories, err
}

// --- Questions ---

// CreateQuestion inserts a question with its options in one transaction.
func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *models.Question, options []models.Option) (*models.Question, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	err = tx.GetContext(ctx, question, `
		INSERT INTO questions (category_id, text, points, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, question.CategoryID, question.Text, question.Points, question.IsActive)
	if err != nil {
		return nil, err
	}

	question.Options = question.Options[:0]
	for i := range options {
		var opt models.Option
		err = tx.GetContext(ctx, &opt, `
			INSERT INTO options (question_id, text, is_correct)
			VALUES ($1, $2, $3)
			RETURNING *
		`, question.ID, options[i].Text, options[i].IsCorrect)
		if err != nil {
			return nil, err
		}
		question.Options = append(question.Options, opt)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return question, nil
}

func (r *QuestionRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	question, err := common.GetByID[models.Question](ctx, r.db, "questions", id, ErrQuestionNotFound)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &question.Options, `
		SELECT * FROM options WHERE question_id = $1 ORDER BY created_at
	`, id)
	if err != nil {
		return nil, err
	}
	return question, nil
}

func (r *QuestionRepository) GetOption(ctx context.Context, questionID, optionID uuid.UUID) (*models.Option, error) {
	var opt models.Option
	err := r.db.GetContext(ctx, &opt, `
		SELECT * FROM options WHERE id = $1 AND question_id = $2
	`, optionID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &opt, nil
}

// ListActiveQuestions returns up to limit random active questions from a
// category, options included, for the quiz screen.
func (r *QuestionRepository) ListActiveQuestions(ctx context.Context, categoryID uuid.UUID, limit int) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.SelectContext(ctx, &questions, `
		SELECT * FROM questions
		WHERE category_id = $1 AND is_active
		ORDER BY RANDOM()
		LIMIT $2
	`, categoryID, limit)
	if err != nil {
		return nil, err
	}

	for i := range questions {
		err = r.db.SelectContext(ctx, &questions[i].Options, `
			SELECT * FROM options WHERE question_id = $1 ORDER BY created_at
		`, questions[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// ListQuestions returns questions for the admin dashboard, newest first.
func (r *QuestionRepository) ListQuestions(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]models.Question, error) {
	var questions []models.Question
	var err error
	if categoryID != nil {
		err = r.db.SelectContext(ctx, &questions, `
			SELECT * FROM questions WHERE category_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, *categoryID, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &questions, `
			SELECT * FROM questions ORDER BY created_at DESC LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	return questions, err
}

func (r *QuestionRepository) UpdateQuestion(ctx context.Context, question *models.Question) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE questions SET category_id = $2, text = $3, points = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`, question.ID, question.CategoryID, question.Text, question.Points, question.IsActive)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// SetQuestionImage attaches an uploaded image path to a question.
func (r *QuestionRepository) SetQuestionImage(ctx context.Context, id uuid.UUID, imagePath *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE questions SET image_path = $2, updated_at = NOW() WHERE id = $1
	`, id, imagePath)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// DeactivateQuestion soft-disables a question. Questions are never
// deleted so the attempt log keeps valid references.
func (r *QuestionRepository) DeactivateQuestion(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE questions SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}
