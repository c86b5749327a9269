package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campus-erp-api/internal/models"
	appErrors "github.com/campusgate/campus-erp-api/pkg/errors"
)

func TestPublishReplacesCurrentNotification(t *testing.T) {
	svc := NewNotificationService(newStateStoreStub(), 0, nil)
	ctx := context.Background()

	first, err := svc.Publish(ctx, "sess-1", "record saved", models.SeveritySuccess)
	require.NoError(t, err)
	assert.Equal(t, models.SeveritySuccess, first.Severity)

	_, err = svc.Publish(ctx, "sess-1", "record deleted", models.SeverityWarning)
	require.NoError(t, err)

	current, err := svc.Current(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "record deleted", current.Message)
	assert.Equal(t, models.SeverityWarning, current.Severity)
}

func TestPublishRejectsEmptyMessage(t *testing.T) {
	svc := NewNotificationService(newStateStoreStub(), 0, nil)

	_, err := svc.Publish(context.Background(), "sess-1", "", models.SeverityInfo)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPublishDefaultsUnknownSeverity(t *testing.T) {
	svc := NewNotificationService(newStateStoreStub(), 0, nil)

	notification, err := svc.Publish(context.Background(), "sess-1", "imported", "catastrophic")
	require.NoError(t, err)
	assert.Equal(t, models.SeverityInfo, notification.Severity)
}

func TestNotificationsAreScopedPerSession(t *testing.T) {
	svc := NewNotificationService(newStateStoreStub(), 0, nil)
	ctx := context.Background()

	_, err := svc.Publish(ctx, "sess-a", "for a", models.SeverityInfo)
	require.NoError(t, err)

	current, err := svc.Current(ctx, "sess-b")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestDismissIsIdempotent(t *testing.T) {
	svc := NewNotificationService(newStateStoreStub(), 0, nil)
	ctx := context.Background()

	_, err := svc.Publish(ctx, "sess-1", "done", models.SeverityInfo)
	require.NoError(t, err)

	require.NoError(t, svc.Dismiss(ctx, "sess-1"))
	require.NoError(t, svc.Dismiss(ctx, "sess-1"))

	current, err := svc.Current(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, current)
}
