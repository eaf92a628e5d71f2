package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/corvid-labs/moirai/internal/logger"
	"github.com/corvid-labs/moirai/internal/models"
)

// Dispatcher executes engine actions. Alert and team notifications flow
// through the notification service (database row plus external fan-out);
// the infrastructure actions are simulated until the platform wires real
// executors behind this boundary.
type Dispatcher struct {
	notifications *NotificationService
	log           *logrus.Entry
}

func NewDispatcher(ns *NotificationService) *Dispatcher {
	return &Dispatcher{
		notifications: ns,
		log:           logger.WithFields(logrus.Fields{"component": "dispatcher"}),
	}
}

// Dispatch performs a single action and returns its result payload.
func (d *Dispatcher) Dispatch(ctx context.Context, action models.Action) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{"type": action.Type, "target": action.Target}).
		Info("executing action")

	switch action.Type {
	case models.ActionScaleUp:
		return map[string]interface{}{"success": true, "new_instances": paramInt(action, "instances", 1)}, nil
	case models.ActionScaleDown:
		return map[string]interface{}{"success": true, "removed_instances": paramInt(action, "instances", 1)}, nil
	case models.ActionSendAlert:
		return d.sendAlert(action)
	case models.ActionNotifyTeam:
		return d.notifyTeam(action)
	case models.ActionRunCommand:
		return map[string]interface{}{"success": true, "output": "command executed"}, nil
	case models.ActionUpdateConfig:
		keys := make([]string, 0, len(action.Parameters))
		for k := range action.Parameters {
			keys = append(keys, k)
		}
		return map[string]interface{}{"success": true, "updated_fields": keys}, nil
	case models.ActionCreateBackup:
		return map[string]interface{}{"success": true, "backup_id": uuid.New().String()}, nil
	case models.ActionRestartService:
		return map[string]interface{}{"success": true, "restart_time": time.Now()}, nil
	case models.ActionExecuteWorkflow:
		return map[string]interface{}{"success": true, "workflow_id": action.Target}, nil
	default:
		return nil, fmt.Errorf("unknown action type: %s", action.Type)
	}
}

func (d *Dispatcher) sendAlert(action models.Action) (interface{}, error) {
	severity, _ := action.Parameters["severity"].(string)
	message, _ := action.Parameters["message"].(string)
	title := fmt.Sprintf("Alert for %s", action.Target)

	nType := models.NotificationTypeWarning
	if severity == "critical" {
		nType = models.NotificationTypeError
	}
	notification, err := d.notifications.Create(nType, title, message)
	if err != nil {
		return nil, fmt.Errorf("record alert: %w", err)
	}
	d.notifications.SendExternal(EventAlert, title, message, map[string]interface{}{
		"Target":   action.Target,
		"Severity": severity,
	})
	return map[string]interface{}{"success": true, "alert_id": notification.ID}, nil
}

func (d *Dispatcher) notifyTeam(action models.Action) (interface{}, error) {
	message, _ := action.Parameters["message"].(string)
	title := fmt.Sprintf("Notification for %s", action.Target)

	notification, err := d.notifications.Create(models.NotificationTypeInfo, title, message)
	if err != nil {
		return nil, fmt.Errorf("record team notification: %w", err)
	}
	d.notifications.SendExternal(EventTeam, title, message, map[string]interface{}{
		"Target": action.Target,
	})
	return map[string]interface{}{"success": true, "notification_id": notification.ID}, nil
}

func paramInt(action models.Action, key string, fallback int) int {
	switch v := action.Parameters[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
