package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bartr_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SubmissionService records each side's completed-work artifact against a
// match. Submissions live in their own table keyed (matchId, userId); the
// match row only carries the per-side submitted flags.
type SubmissionService struct {
	Dynamo  DynamoAPI
	Matches *MatchService
	Events  MatchEventPublisher
}

// SubmitResult reports the match state after a submission.
type SubmitResult struct {
	Match         *models.Match `json:"match"`
	BothSubmitted bool          `json:"bothSubmitted"`
}

// Submit stores the actor's work content and flips their submission flag.
// Resubmitting overwrites the stored content but the flag stays set.
func (s *SubmissionService) Submit(ctx context.Context, matchID, actorID, content string) (*SubmitResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	match, err := s.Matches.GetMatchForUser(ctx, matchID, actorID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusActive {
		return nil, ErrMatchCompleted
	}
	if !match.IsChatEnabled {
		return nil, ErrChatDisabled
	}

	submission := models.Submission{
		MatchID:     matchID,
		UserID:      actorID,
		Content:     content,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}

	flag := "projectSubmittedUser1"
	if actorID == match.User2ID {
		flag = "projectSubmittedUser2"
	}
	// The status guard rides the transaction so a submit racing a settlement
	// or the expiry sweep cannot touch a match that just went terminal.
	err = s.Dynamo.TransactWrite(ctx, []TransactOp{
		{Table: models.SubmissionsTable, Put: submission},
		{
			Table:            models.MatchesTable,
			Key:              MatchKey(matchID),
			UpdateExpression: "SET " + flag + " = :true",
			Condition:        "#status = :active",
			Values: map[string]types.AttributeValue{
				":true":   &types.AttributeValueMemberBOOL{Value: true},
				":active": &types.AttributeValueMemberS{Value: models.MatchStatusActive},
			},
			Names: map[string]string{"#status": "status"},
		},
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, ErrMatchCompleted
		}
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	// Re-read to observe the counterpart's flag as well.
	updated, err := s.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	log.Printf("📦 %s submitted work for match %s (both submitted: %v)",
		actorID, matchID, updated.ProjectSubmittedUser1 && updated.ProjectSubmittedUser2)

	if s.Events != nil {
		s.Events.PublishMatchUpdated(matchID, updated)
	}
	return &SubmitResult{
		Match:         updated,
		BothSubmitted: updated.ProjectSubmittedUser1 && updated.ProjectSubmittedUser2,
	}, nil
}

// GetSubmissions returns the submissions recorded for a match the actor
// participates in.
func (s *SubmissionService) GetSubmissions(ctx context.Context, matchID, actorID string) ([]models.Submission, error) {
	if _, err := s.Matches.GetMatchForUser(ctx, matchID, actorID); err != nil {
		return nil, err
	}

	items, err := s.Dynamo.QueryItems(ctx, models.SubmissionsTable,
		"matchId = :matchId",
		map[string]types.AttributeValue{
			":matchId": &types.AttributeValueMemberS{Value: matchID},
		}, nil, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	var submissions []models.Submission
	if err := attributevalue.UnmarshalListOfMaps(items, &submissions); err != nil {
		return nil, fmt.Errorf("failed to parse submissions: %w", err)
	}
	return submissions, nil
}
