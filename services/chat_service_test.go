package services

import (
	"context"
	"errors"
	"testing"
)

func TestChatGatedUntilBothStakes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 50, nil, nil)
	env.seedProfile(t, "bob", 50, nil, nil)

	match, err := env.matches.CreateMatch(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	if _, err := env.chat.SendMessage(ctx, match.MatchID, "alice", "hello?"); !errors.Is(err, ErrChatDisabled) {
		t.Errorf("SendMessage error = %v, want ErrChatDisabled", err)
	}
	if _, err := env.chat.GetMessages(ctx, match.MatchID, "alice", 0); !errors.Is(err, ErrChatDisabled) {
		t.Errorf("GetMessages error = %v, want ErrChatDisabled", err)
	}

	// One stake is not enough.
	if _, err := env.escrow.Stake(ctx, match.MatchID, "alice"); err != nil {
		t.Fatalf("Stake: %v", err)
	}
	if _, err := env.chat.SendMessage(ctx, match.MatchID, "alice", "hello?"); !errors.Is(err, ErrChatDisabled) {
		t.Errorf("SendMessage after one stake error = %v, want ErrChatDisabled", err)
	}
}

func TestChatRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 50, nil, nil)
	env.seedProfile(t, "bob", 50, nil, nil)

	match := env.stakedMatch(t, "alice", "bob")

	for _, msg := range []struct{ sender, content string }{
		{"alice", "hi bob"},
		{"bob", "hi alice"},
		{"alice", "let's start"},
	} {
		if _, err := env.chat.SendMessage(ctx, match.MatchID, msg.sender, msg.content); err != nil {
			t.Fatalf("SendMessage(%s): %v", msg.sender, err)
		}
	}

	messages, err := env.chat.GetMessages(ctx, match.MatchID, "bob", 0)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	// Oldest first.
	if messages[0].Content != "hi bob" || messages[2].Content != "let's start" {
		t.Errorf("unexpected ordering: %q ... %q", messages[0].Content, messages[2].Content)
	}
	if len(env.events.messages) != 3 {
		t.Errorf("published %d newMessage events, want 3", len(env.events.messages))
	}

	// Outsiders see nothing.
	if _, err := env.chat.GetMessages(ctx, match.MatchID, "mallory", 0); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider GetMessages error = %v, want ErrNotParticipant", err)
	}
	if _, err := env.chat.SendMessage(ctx, match.MatchID, "alice", "   "); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("blank SendMessage error = %v, want ErrEmptyContent", err)
	}
}

func TestGetMessagesLimitReturnsNewestPage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 50, nil, nil)
	env.seedProfile(t, "bob", 50, nil, nil)

	match := env.stakedMatch(t, "alice", "bob")
	for _, content := range []string{"one", "two", "three", "four"} {
		if _, err := env.chat.SendMessage(ctx, match.MatchID, "alice", content); err != nil {
			t.Fatalf("SendMessage(%s): %v", content, err)
		}
	}

	// A chat longer than the limit serves the latest page, oldest first.
	messages, err := env.chat.GetMessages(ctx, match.MatchID, "bob", 2)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Content != "three" || messages[1].Content != "four" {
		t.Errorf("limited page = [%q, %q], want [three, four]", messages[0].Content, messages[1].Content)
	}
}

func TestSendFileMessage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 50, nil, nil)
	env.seedProfile(t, "bob", 50, nil, nil)

	match := env.stakedMatch(t, "alice", "bob")

	message, err := env.chat.SendFileMessage(ctx, match.MatchID, "alice", "design draft",
		"chat-files/"+match.MatchID+"/draft.pdf", "draft.pdf")
	if err != nil {
		t.Fatalf("SendFileMessage: %v", err)
	}
	if message.FileURL == "" || message.FileName != "draft.pdf" {
		t.Errorf("file fields not stored: %+v", message)
	}

	if _, err := env.chat.SendFileMessage(ctx, match.MatchID, "alice", "", "", ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("missing file fields error = %v, want ErrEmptyContent", err)
	}

	messages, err := env.chat.GetMessages(ctx, match.MatchID, "alice", 0)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].FileName != "draft.pdf" {
		t.Errorf("stored file name = %q, want draft.pdf", messages[0].FileName)
	}
}
