// internal/notify/notify.go

// Package notify sends confirmation notifications for roster changes.
// Notifications are a side channel: failures are logged and counted but
// never surface to the participant-facing operation.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"activities-service/internal/common/config"
	apperrors "activities-service/internal/common/errors"
	"activities-service/internal/common/logger"
)

// Event describes one roster change.
type Event struct {
	ID          string    `json:"id"`
	Operation   string    `json:"operation"` // "signup" or "unregister"
	Activity    string    `json:"activity"`
	Participant string    `json:"participant"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier delivers roster change notifications.
type Notifier interface {
	RosterChanged(ctx context.Context, event Event)
}

// NewNoOp returns a Notifier that drops every event. Used when
// notifications are disabled.
func NewNoOp() Notifier {
	return noopNotifier{}
}

type noopNotifier struct{}

func (noopNotifier) RosterChanged(context.Context, Event) {}

// Manager fans a roster change out to the enabled channels.
type Manager struct {
	cfg    config.NotificationConfig
	ses    *SESClient
	sns    *SNSClient
	logger logger.Logger
}

// NewManager builds the AWS clients for the enabled channels.
func NewManager(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Manager, error) {
	m := &Manager{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
	}

	if cfg.Email.Enabled {
		sesClient, err := NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		m.ses = sesClient
	}

	if cfg.SMS.Enabled {
		snsClient, err := NewSNSClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
		m.sns = snsClient
	}

	return m, nil
}

// RosterChanged delivers the event on every enabled channel.
func (m *Manager) RosterChanged(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	subject, body := renderMessage(event)

	if m.ses != nil {
		if err := m.ses.SendConfirmation(ctx, m.cfg.Email.FromEmail, event.Participant, subject, body); err != nil {
			m.logger.WithError(apperrors.NewNotificationSendFailedError("email", err)).Error(
				"confirmation email failed", map[string]interface{}{
					"notificationId": event.ID,
					"activity":       event.Activity,
				})
		}
	}

	if m.sns != nil {
		if err := m.sns.PublishMessage(ctx, m.cfg.SMS.TopicARN, body); err != nil {
			m.logger.WithError(apperrors.NewNotificationSendFailedError("sms", err)).Error(
				"sms notification failed", map[string]interface{}{
					"notificationId": event.ID,
					"activity":       event.Activity,
				})
		}
	}
}

func renderMessage(event Event) (subject, body string) {
	switch event.Operation {
	case "signup":
		subject = fmt.Sprintf("Signed up for %s", event.Activity)
		body = fmt.Sprintf("%s has been signed up for %s.", event.Participant, event.Activity)
	default:
		subject = fmt.Sprintf("Unregistered from %s", event.Activity)
		body = fmt.Sprintf("%s has been unregistered from %s.", event.Participant, event.Activity)
	}
	return subject, body
}
