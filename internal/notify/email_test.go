package notify

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailConfigured(t *testing.T) {
	assert.False(t, NewEmail(EmailConfig{}).Configured())
	assert.False(t, NewEmail(EmailConfig{Host: "smtp.zoho.com"}).Configured())
	assert.True(t, NewEmail(EmailConfig{
		Host:     "smtp.zoho.com",
		Username: "bot@example.com",
		Password: "secret",
	}).Configured())
}

func TestEmailSendRequiresRecipient(t *testing.T) {
	email := NewEmail(EmailConfig{
		Host:     "smtp.zoho.com",
		Username: "bot@example.com",
		Password: "secret",
	})

	lead := testLead()
	lead.TargetEmail = ""
	err := email.Send(context.Background(), lead)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no target email")
}

func TestEmailSendHonoursCancelledContext(t *testing.T) {
	email := NewEmail(EmailConfig{
		Host:     "smtp.zoho.com",
		Username: "bot@example.com",
		Password: "secret",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := email.Send(ctx, testLead())
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildLeadEmail(t *testing.T) {
	cfg := EmailConfig{
		Username: "bot@example.com",
		FromName: "Vegos Chatbot",
	}
	lead := testLead()
	lead.Confidence = 80
	lead.LeadScore = 90
	lead.Timestamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	msg := string(buildLeadEmail(cfg, "sales@example.com", lead))

	assert.Contains(t, msg, "From: Vegos Chatbot <bot@example.com>\r\n")
	assert.Contains(t, msg, "To: sales@example.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	assert.Contains(t, msg, "שם: Dana Cohen\n")
	assert.Contains(t, msg, "אמצעי התקשרות: dana@example.com\n")
	assert.Contains(t, msg, "ציון ליד: 90\n")

	// Hebrew subject survives as base64 under RFC 2047 framing.
	subjectLine := ""
	for _, line := range strings.Split(msg, "\r\n") {
		if strings.HasPrefix(line, "Subject: ") {
			subjectLine = line
			break
		}
	}
	require.NotEmpty(t, subjectLine)
	encoded := strings.TrimSuffix(strings.TrimPrefix(subjectLine, "Subject: =?UTF-8?B?"), "?=")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "🎯 ליד חדש - shira_tours", string(decoded))
}

func TestBuildLeadEmailWithoutFromName(t *testing.T) {
	msg := string(buildLeadEmail(EmailConfig{Username: "bot@example.com"}, "to@example.com", testLead()))
	assert.Contains(t, msg, "From: bot@example.com\r\n")
}
