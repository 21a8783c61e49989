package ai

import (
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
)

func TestBuildHistoryMessages(t *testing.T) {
	history := []chat.Message{
		chat.UserMessage("שלום"),
		chat.AssistantMessage("היי! איך אפשר לעזור?"),
	}

	msgs := buildHistoryMessages(history)
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Role != schema.User || msgs[0].Content != "שלום" {
		t.Fatalf("first message wrong: %+v", msgs[0])
	}
	if msgs[1].Role != schema.Assistant {
		t.Fatalf("second message role = %q", msgs[1].Role)
	}
}

func TestBuildHistoryMessagesWindowed(t *testing.T) {
	var history []chat.Message
	for i := 0; i < 30; i++ {
		history = append(history, chat.UserMessage(fmt.Sprintf("הודעה %d", i)))
	}

	msgs := buildHistoryMessages(history)
	if len(msgs) != historyLimit {
		t.Fatalf("len = %d, want the window of %d", len(msgs), historyLimit)
	}
	if msgs[len(msgs)-1].Content != "הודעה 29" {
		t.Fatalf("window must keep the most recent turns, got %q", msgs[len(msgs)-1].Content)
	}
}

func TestBuildHistoryMessagesEmpty(t *testing.T) {
	if got := buildHistoryMessages(nil); got != nil {
		t.Fatalf("expected nil for empty history, got %v", got)
	}
}

func TestBuildHistoryMessagesSkipsUnknownRoles(t *testing.T) {
	history := []chat.Message{
		{Role: chat.Role("system"), Text: "should be dropped"},
		chat.UserMessage("שלום"),
	}
	msgs := buildHistoryMessages(history)
	if len(msgs) != 1 {
		t.Fatalf("len = %d, want unknown roles filtered out", len(msgs))
	}
}
