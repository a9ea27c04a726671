package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/models"
	"github.com/phtrivia/phtrivia-backend/internal/repository"
)

// NotificationService persists user-facing events; the websocket hub
// mirrors them to connected clients.
type NotificationService struct {
	repo *repository.NotificationRepository
}

// NewNotificationService creates the notification service.
func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateForWS stores an event pushed over the websocket channel.
func (s *NotificationService) CreateForWS(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("notification service: marshal payload: %w", err)
	}
	_, err = s.repo.Create(ctx, userID, event, payload)
	return err
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}
