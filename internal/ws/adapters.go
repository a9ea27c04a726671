package ws

import (
	"context"

	"github.com/google/uuid"

	"github.com/phtrivia/phtrivia-backend/internal/logger"
	"github.com/phtrivia/phtrivia-backend/internal/models"
)

// NotificationServiceAdapter plugs the notification service into the hub
// as its event saver.
type NotificationServiceAdapter struct {
	service interface {
		CreateForWS(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
	}
}

// NewNotificationServiceAdapter creates the adapter.
func NewNotificationServiceAdapter(service interface {
	CreateForWS(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
}) *NotificationServiceAdapter {
	return &NotificationServiceAdapter{service: service}
}

// SaveEvent implements EventSaver.
func (a *NotificationServiceAdapter) SaveEvent(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	return a.service.CreateForWS(ctx, userID, event, data)
}

// WithdrawalNotifier pushes withdrawal status changes to the owner's
// websocket channel.
type WithdrawalNotifier struct {
	hub *Hub
}

// NewWithdrawalNotifier creates the notifier.
func NewWithdrawalNotifier(hub *Hub) *WithdrawalNotifier {
	return &WithdrawalNotifier{hub: hub}
}

// WithdrawalStatusChanged broadcasts the updated withdrawal to its owner.
func (n *WithdrawalNotifier) WithdrawalStatusChanged(userID uuid.UUID, withdrawal *models.Withdrawal) {
	if err := n.hub.BroadcastToUser(userID, models.EventWithdrawalStatus, withdrawal); err != nil {
		logger.Module("ws").WithError(err).Warn("failed to broadcast withdrawal status")
	}
}
