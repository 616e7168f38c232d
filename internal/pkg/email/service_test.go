package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func testService(t *testing.T) (*EmailService, *[]*Email) {
	t.Helper()
	cfg := &config.Config{
		App:    config.AppConfig{Name: "Storefront", BaseURL: "https://shop.example/"},
		Server: config.ServerConfig{LoginPath: "/admin"},
		JWT:    config.JWTConfig{RecoveryExpiry: time.Hour},
		Email:  config.EmailConfig{Provider: "log"},
	}
	s := NewEmailService(cfg, logger.Discard())

	var sent []*Email
	s.send = func(e *Email) error {
		sent = append(sent, e)
		return nil
	}
	return s, &sent
}

func TestSendPasswordReset(t *testing.T) {
	s, sent := testService(t)

	require.NoError(t, s.SendPasswordReset("alice@example.com", "Alice", "tok en"))
	require.Len(t, *sent, 1)

	e := (*sent)[0]
	assert.Equal(t, []string{"alice@example.com"}, e.To)
	assert.Equal(t, EmailTypePasswordReset, e.Type)
	assert.Equal(t, "Reset your Storefront password", e.Subject)
	assert.Contains(t, e.HTMLContent, "https://shop.example/admin/reset-password?token=tok&#43;en")
	assert.Contains(t, e.HTMLContent, "Hi Alice")
	assert.Contains(t, e.HTMLContent, "1h0m0s")
}

func TestSendWelcome(t *testing.T) {
	s, sent := testService(t)

	require.NoError(t, s.SendWelcome("bob@example.com", "Bob"))
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].HTMLContent, `href="https://shop.example/admin"`)
}

func TestSendWithoutRecipients(t *testing.T) {
	s, _ := testService(t)
	assert.Error(t, s.Send(&Email{Subject: "x"}))
}

func TestBuildMessage(t *testing.T) {
	msg := string(buildMessage("Shop", "noreply@shop.example", &Email{
		To:          []string{"a@example.com", "b@example.com"},
		Subject:     "Hello",
		HTMLContent: "<p>hi</p>",
	}))

	assert.True(t, strings.HasPrefix(msg, "From: Shop <noreply@shop.example>\r\n"))
	assert.Contains(t, msg, "To: a@example.com, b@example.com\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}
