package repositories

import (
	"errors"

	"github.com/tanvir-ahmd/chirpline/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByRecipient(toID string) ([]models.Notification, error)
	GetByID(id uint) (*models.Notification, error)
	MarkAllRead(toID string) error
	Delete(id uint) error
	DeleteByRecipient(toID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed
// by PostgreSQL.
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipient(toID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.Where("to_id = ?", toID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetByID(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification")
		}
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) MarkAllRead(toID string) error {
	return r.db.Model(&models.Notification{}).
		Where("to_id = ? AND is_read = false", toID).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Notification{}, id).Error
}

func (r *postgresNotificationRepository) DeleteByRecipient(toID string) error {
	return r.db.Where("to_id = ?", toID).Delete(&models.Notification{}).Error
}
