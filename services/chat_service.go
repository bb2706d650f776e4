package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"bartr_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService stores and serves match messages. Every read and write passes
// the chat gate: no traffic until both sides have staked.
type ChatService struct {
	Dynamo  DynamoAPI
	Matches *MatchService
	Events  MatchEventPublisher
}

// gate verifies the actor participates in the match and that chat is
// unlocked.
func (s *ChatService) gate(ctx context.Context, matchID, actorID string) (*models.Match, error) {
	match, err := s.Matches.GetMatchForUser(ctx, matchID, actorID)
	if err != nil {
		return nil, err
	}
	if !match.IsChatEnabled {
		return nil, ErrChatDisabled
	}
	return match, nil
}

// GetMessages fetches the newest messages for a match, returned oldest
// first. The read runs in reverse sort-key order so a chat longer than the
// limit yields the latest page, not the earliest.
func (s *ChatService) GetMessages(ctx context.Context, matchID, actorID string, limit int) ([]models.Message, error) {
	if _, err := s.gate(ctx, matchID, actorID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	items, err := s.Dynamo.QueryItemsDesc(ctx, models.MessagesTable,
		"#matchId = :matchId",
		map[string]types.AttributeValue{
			":matchId": &types.AttributeValueMemberS{Value: matchID},
		},
		map[string]string{"#matchId": "matchId"}, // reserved word guard
		int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})

	log.Printf("✅ Found %d messages for matchId: %s", len(messages), matchID)
	return messages, nil
}

// SendMessage appends a text message to the match chat.
func (s *ChatService) SendMessage(ctx context.Context, matchID, actorID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	return s.appendMessage(ctx, matchID, actorID, content, "", "")
}

// SendFileMessage appends a message carrying an uploaded file reference.
// The upload itself happens against a presigned URL before this call, so a
// failed upload never produces a message row.
func (s *ChatService) SendFileMessage(ctx context.Context, matchID, actorID, content, fileURL, fileName string) (*models.Message, error) {
	if fileURL == "" || fileName == "" {
		return nil, fmt.Errorf("%w: fileUrl and fileName are required", ErrEmptyContent)
	}
	return s.appendMessage(ctx, matchID, actorID, content, fileURL, fileName)
}

func (s *ChatService) appendMessage(ctx context.Context, matchID, actorID, content, fileURL, fileName string) (*models.Message, error) {
	if _, err := s.gate(ctx, matchID, actorID); err != nil {
		return nil, err
	}

	message := models.Message{
		MatchID:   matchID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		MessageID: uuid.NewString(),
		SenderID:  actorID,
		Content:   content,
		FileURL:   fileURL,
		FileName:  fileName,
	}

	log.Printf("📩 Storing message %s for match %s", message.MessageID, matchID)
	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if s.Events != nil {
		s.Events.PublishNewMessage(matchID, message)
	}
	return &message, nil
}
