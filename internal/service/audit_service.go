package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/recipe-service/internal/events"
)

// AuditService logs auth lifecycle events through the dispatcher.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the audit logger to all auth events.
func (s *AuditService) RegisterHandlers() {
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserLoggedIn,
		events.EventTokenRefreshed,
	} {
		s.dispatcher.Subscribe(eventType, s.logEvent)
	}
}

func (s *AuditService) logEvent(_ context.Context, event events.Event) error {
	s.logger.Info("auth event",
		zap.String("type", string(event.Type)),
		zap.String("user_id", event.UserID),
		zap.String("email", event.Email),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
