package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/theetaz/complaint-service/internal/config"
	"github.com/theetaz/complaint-service/internal/events"
)

// NotificationService handles outbound notifications for domain events.
// Actual email delivery is an external collaborator; this service prepares
// and logs the dispatch.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("subject", event.Subject))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	link := payload.Link
	if base := strings.TrimSpace(n.cfg.ResetLinkBase); base != "" {
		link = strings.TrimSuffix(base, "/") + link
	}
	n.sendEmailStub(ctx, event.Subject, "password reset", link)
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	n.sendEmailStub(ctx, event.Subject, "password changed", "")
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged",
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailStub(_ context.Context, to, kind, link string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	fields := []zap.Field{
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("kind", kind),
	}
	if link != "" {
		fields = append(fields, zap.String("link", link))
	}
	n.logger.Debug("sendEmailStub", fields...)
}
