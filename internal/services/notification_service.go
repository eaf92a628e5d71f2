package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/corvid-labs/moirai/internal/logger"
	"github.com/corvid-labs/moirai/internal/models"
)

// Event types used to filter which providers receive an external send.
const (
	EventAlert     = "alert"
	EventTeam      = "team"
	EventOptimizer = "optimizer"
	EventTest      = "test"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// Internal notifications (DB)

func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// RuleDisabled records an optimizer pass disabling an underperforming rule
// and fans the event out to providers subscribed to optimizer events.
func (s *NotificationService) RuleDisabled(name string, successRate float64) {
	title := fmt.Sprintf("Rule disabled: %s", name)
	message := fmt.Sprintf("The optimizer disabled %q after a %.0f%% success rate over the last week.", name, successRate*100)
	if _, err := s.Create(models.NotificationTypeWarning, title, message); err != nil {
		logger.Log().WithError(err).Error("record optimizer notification")
	}
	s.SendExternal(EventOptimizer, title, message, map[string]interface{}{
		"Rule":        name,
		"SuccessRate": successRate,
	})
}

// External notifications (shoutrrr)

// SendExternal fans an event out to every enabled provider whose preferences
// include the event type. Sends run in goroutines so a slow provider cannot
// stall a decision cycle's dispatch step.
func (s *NotificationService) SendExternal(eventType, title, message string, data map[string]interface{}) {
	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ?", true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Error("fetch notification providers")
		return
	}

	for _, provider := range providers {
		shouldSend := false
		switch eventType {
		case EventAlert:
			shouldSend = provider.NotifyAlerts
		case EventTeam:
			shouldSend = provider.NotifyTeam
		case EventOptimizer:
			shouldSend = provider.NotifyOptimizer
		case EventTest:
			shouldSend = true
		default:
			shouldSend = true
		}
		if !shouldSend {
			continue
		}

		go func(p models.NotificationProvider) {
			msg := fmt.Sprintf("%s\n\n%s", title, message)
			if err := shoutrrr.Send(p.URL, msg); err != nil {
				logger.WithFields(map[string]interface{}{"provider": p.Name}).
					WithError(err).Error("failed to send notification")
			}
		}(provider)
	}
}
