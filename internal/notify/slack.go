package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
)

// Slack posts lead notifications to an incoming-webhook URL.
type Slack struct {
	webhookURL string
	client     *http.Client
}

// NewSlack builds the Slack channel with a bounded request timeout.
func NewSlack(webhookURL string, timeout time.Duration) *Slack {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send posts the lead as a text + blocks message.
func (s *Slack) Send(ctx context.Context, lead *chat.LeadRecord) error {
	payload := map[string]any{
		"text": fmt.Sprintf("🎯 ליד חדש!\nשם: %s\nאמצעי התקשרות: %s\nכוונה: %s\nציון: %d",
			lead.Name, lead.Contact, lead.Intent, lead.LeadScore),
		"blocks": []slackBlock{
			{
				Type: "section",
				Text: &slackText{Type: "mrkdwn", Text: "*🎯 ליד חדש!*"},
			},
			{
				Type: "section",
				Fields: []slackText{
					{Type: "mrkdwn", Text: fmt.Sprintf("*שם:*\n%s", lead.Name)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*אמצעי התקשרות:*\n%s", lead.Contact)},
				},
			},
			{
				Type: "section",
				Fields: []slackText{
					{Type: "mrkdwn", Text: fmt.Sprintf("*כוונה:*\n%s", lead.Intent)},
					{Type: "mrkdwn", Text: fmt.Sprintf("*ציון:*\n%d", lead.LeadScore)},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to slack webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned %d", resp.StatusCode)
	}
	return nil
}
