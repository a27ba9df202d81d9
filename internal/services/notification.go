package services

import (
	"context"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"github.com/tanvir-ahmd/chirpline/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService serves a recipient's notification records with actor
// identity resolved from the identity store.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository) *NotificationService {
	return &NotificationService{notifications: notifications, users: users}
}

// List returns the recipient's notifications and marks them all read as a
// side effect of the fetch.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID) ([]models.EnrichedNotification, error) {
	notifications, err := s.notifications.GetByRecipient(userID.Hex())
	if err != nil {
		return nil, err
	}

	enriched := make([]models.EnrichedNotification, len(notifications))
	cache := make(map[string]models.UserSummary)
	for i, n := range notifications {
		enriched[i] = models.EnrichedNotification{Notification: n}
		if actor, ok := cache[n.FromID]; ok {
			enriched[i].From = actor
			continue
		}
		if actorID, err := primitive.ObjectIDFromHex(n.FromID); err == nil {
			if user, err := s.users.GetByID(ctx, actorID); err == nil {
				summary := user.ToSummary()
				cache[n.FromID] = summary
				enriched[i].From = summary
			}
		}
	}

	if err := s.notifications.MarkAllRead(userID.Hex()); err != nil {
		return nil, err
	}
	return enriched, nil
}

// DeleteAll removes every notification addressed to the recipient.
func (s *NotificationService) DeleteAll(ctx context.Context, userID primitive.ObjectID) error {
	return s.notifications.DeleteByRecipient(userID.Hex())
}

// DeleteOne removes a single notification owned by the recipient.
func (s *NotificationService) DeleteOne(ctx context.Context, userID primitive.ObjectID, notificationID uint) error {
	notification, err := s.notifications.GetByID(notificationID)
	if err != nil {
		return err
	}

	if notification.ToID != userID.Hex() {
		return models.NewForbiddenError("You are not allowed to delete this notification")
	}

	return s.notifications.Delete(notificationID)
}
