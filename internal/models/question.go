package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups questions for the quiz picker.
type Category struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Question is a multiple-choice question worth a fixed number of points.
type Question struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CategoryID uuid.UUID `db:"category_id" json:"category_id"`
	Text       string    `db:"text" json:"text"`
	Points     int64     `db:"points" json:"points"`
	ImagePath  *string   `db:"image_path" json:"image_path,omitempty"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	Options []Option `db:"-" json:"options,omitempty"`
}

// Option is one answer choice. IsCorrect must never reach players.
type Option struct {
	ID         uuid.UUID `db:"id" json:"id"`
	QuestionID uuid.UUID `db:"question_id" json:"question_id"`
	Text       string    `db:"text" json:"text"`
	IsCorrect  bool      `db:"is_correct" json:"is_correct,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
