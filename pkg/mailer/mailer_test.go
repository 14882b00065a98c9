package mailer

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/reelhouse-backend/pkg/config"
	"github.com/angelmondragon/reelhouse-backend/pkg/errors"
	"github.com/angelmondragon/reelhouse-backend/pkg/logger"
)

func newTestMailer(t *testing.T) *Resend {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = config.AppEnvDev
	cfg.Site.Scheme = "https"
	cfg.Site.Domain = "reelhouse.example"
	cfg.Resend.DefaultFrom = "no-reply@reelhouse.example"

	logg := logger.New(logger.Options{Output: io.Discard})
	m, err := NewResend(cfg, logg)
	require.NoError(t, err)
	return m
}

func TestNewResend_RequiresDeps(t *testing.T) {
	logg := logger.New(logger.Options{Output: io.Discard})
	_, err := NewResend(nil, logg)
	require.Error(t, err)
	_, err = NewResend(&config.Config{}, nil)
	require.Error(t, err)
}

func TestResend_DevModeSuppressesSend(t *testing.T) {
	m := newTestMailer(t)
	require.True(t, m.devMode)
	require.Nil(t, m.client)

	err := m.SendActivation(context.Background(), "person@example.com", "dXVpZA", "tok")
	require.NoError(t, err)
}

func TestResend_RejectsEmptyRecipient(t *testing.T) {
	m := newTestMailer(t)
	err := m.SendActivation(context.Background(), "  ", "uid", "tok")
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestActivationLink(t *testing.T) {
	subject, body := activationTemplate("https://reelhouse.example/api/v1/users/create/confirm/uid/tok")
	require.Equal(t, "Activate your ReelHouse account", subject)
	require.Contains(t, body, "https://reelhouse.example/api/v1/users/create/confirm/uid/tok")
}

func TestEmailChangeLink(t *testing.T) {
	subject, body := emailChangeTemplate("https://reelhouse.example/api/v1/users/email/confirm/tok/bmV3")
	require.Equal(t, "Confirm your new ReelHouse email address", subject)
	require.Contains(t, body, "/api/v1/users/email/confirm/tok/bmV3")
}
