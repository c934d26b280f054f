package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/mail"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

func TestNoStaffAlertWithoutNotificationAddress(t *testing.T) {
	cfg := testConfig()
	cfg.Notification.Email = ""
	h := newHarnessWithConfig(t, cfg)

	_, err := h.tickets.Create(context.Background(), validTicketInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"maria@example.com"}, h.sender.recipients())
}

func TestRatingRequestCanBeDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Notification.RatingRequestOnFinalize = false
	h := newHarnessWithConfig(t, cfg)
	ctx := context.Background()
	ticket, err := h.tickets.Create(ctx, validTicketInput())
	require.NoError(t, err)
	h.sender.reset()

	_, err = h.tickets.SetStatus(ctx, ticket.ID, domain.TicketStatusFinalized, "Ana")
	require.NoError(t, err)
	require.Len(t, h.sender.sent, 1)
	assert.Contains(t, h.sender.sent[0].Subject, "Status: Finalizado")
}

func TestDeliverLogsOutcome(t *testing.T) {
	h := newHarness(t)
	core, logs := observer.New(zapcore.InfoLevel)
	h.notifications.logger = zap.New(core)
	msg := mail.Message{To: "a@b.c", Subject: "s"}

	h.notifications.deliver(context.Background(), "test", "1", msg, nil)
	assert.Equal(t, []string{"a@b.c"}, h.sender.recipients())
	assert.Equal(t, 1, logs.FilterMessage("email sent").Len())

	h.notifications.deliver(context.Background(), "test", "1", msg, errBoom)
	assert.Len(t, h.sender.recipients(), 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to compose email").Len())

	h.sender.err = mail.ErrNotConfigured
	h.notifications.deliver(context.Background(), "test", "1", msg, nil)
	skipped := logs.FilterMessage("smtp not configured; email skipped").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, zapcore.InfoLevel, skipped[0].Level)

	h.sender.err = errBoom
	h.notifications.deliver(context.Background(), "test", "1", msg, nil)
	assert.Equal(t, 1, logs.FilterMessage("failed to send email").Len())
	assert.Len(t, h.sender.recipients(), 1)
}

func TestSendTestEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	to, err := h.notifications.SendTestEmail(ctx, TestEmailInput{})
	require.NoError(t, err)
	assert.Equal(t, "manutencao@sesc.org", to)

	to, err = h.notifications.SendTestEmail(ctx, TestEmailInput{To: "outro@sesc.org"})
	require.NoError(t, err)
	assert.Equal(t, "outro@sesc.org", to)
	assert.Equal(t, []string{"manutencao@sesc.org", "outro@sesc.org"}, h.sender.recipients())

	_, err = h.notifications.SendTestEmail(ctx, TestEmailInput{To: "nope"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	h.sender.err = mail.ErrNotConfigured
	_, err = h.notifications.SendTestEmail(ctx, TestEmailInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	h.sender.err = errBoom
	_, err = h.notifications.SendTestEmail(ctx, TestEmailInput{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInfrastructure))
}

func TestSendTestEmailNeedsRecipient(t *testing.T) {
	cfg := testConfig()
	cfg.Notification.Email = ""
	h := newHarnessWithConfig(t, cfg)

	_, err := h.notifications.SendTestEmail(context.Background(), TestEmailInput{})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "to")
}
