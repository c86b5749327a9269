package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

type notificationStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NotificationService keeps a single transient notification per session.
// Publishing replaces whatever is currently held; there is no queue.
type NotificationService struct {
	store  notificationStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewNotificationService creates a notification service. A zero TTL keeps
// notifications until they are dismissed or replaced.
func NewNotificationService(store notificationStore, ttl time.Duration, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{store: store, ttl: ttl, logger: logger}
}

// Publish stores a notification for the session, replacing any current one.
func (s *NotificationService) Publish(ctx context.Context, sessionKey, message string, severity models.Severity) (*models.Notification, error) {
	if message == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "notification message is required")
	}
	if !models.ValidSeverity(severity) {
		severity = models.SeverityInfo
	}

	notification := &models.Notification{
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Set(ctx, notificationKey(sessionKey), notification, s.ttl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to publish notification")
	}
	return notification, nil
}

// Current returns the session's pending notification, nil when the slot is
// empty.
func (s *NotificationService) Current(ctx context.Context, sessionKey string) (*models.Notification, error) {
	notification := &models.Notification{}
	if err := s.store.Get(ctx, notificationKey(sessionKey), notification); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification")
	}
	return notification, nil
}

// Dismiss clears the slot; dismissing an empty slot is a no-op.
func (s *NotificationService) Dismiss(ctx context.Context, sessionKey string) error {
	if err := s.store.Delete(ctx, notificationKey(sessionKey)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to dismiss notification")
	}
	return nil
}

func notificationKey(sessionKey string) string {
	return "notify:" + sessionKey
}
