package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery is stubbed out; every channel only logs.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     defaultLogger(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLeaveRequestSubmitted, n.handleLeaveSubmitted)
	n.dispatcher.Subscribe(events.EventLeaveRequestAutoRejected, n.handleLeaveAutoRejected)
	n.dispatcher.Subscribe(events.EventLeaveRequestReviewed, n.handleLeaveReviewed)
	n.dispatcher.Subscribe(events.EventCalendarEventCreated, n.handleCalendarChanged)
	n.dispatcher.Subscribe(events.EventCalendarEventDeleted, n.handleCalendarChanged)
}

func (n *NotificationService) handleLeaveSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaveRequestSubmitted", zap.String("leave_request_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeaveAutoRejected(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaveRequestAutoRejected", zap.String("leave_request_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeaveReviewed(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaveRequestReviewed", zap.String("leave_request_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCalendarChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CalendarChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("calendar_event_id", event.AggregateID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}
