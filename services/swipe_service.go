package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bartr_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SwipeService records directional interest and turns mutual likes into
// matches.
type SwipeService struct {
	Dynamo  DynamoAPI
	Matches *MatchService
}

// SwipeResult reports what a swipe produced.
type SwipeResult struct {
	MatchCreated bool   `json:"matchCreated"`
	MatchID      string `json:"matchId,omitempty"`
}

// GetSwipe returns the swiper's existing record for target, or nil if the
// pair has never been swiped.
func (s *SwipeService) GetSwipe(ctx context.Context, swiperID, targetID string) (*models.Swipe, error) {
	key := map[string]types.AttributeValue{
		"swiperId": &types.AttributeValueMemberS{Value: swiperID},
		"targetId": &types.AttributeValueMemberS{Value: targetID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.SwipesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var swipe models.Swipe
	if err := attributevalue.UnmarshalMap(item, &swipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal swipe: %w", err)
	}
	return &swipe, nil
}

// RecordSwipe upserts the swipe record (last write wins on direction) and,
// on a mutual like, creates the match.
func (s *SwipeService) RecordSwipe(ctx context.Context, swiperID, targetID, direction string) (*SwipeResult, error) {
	if swiperID == targetID {
		return nil, ErrSelfTarget
	}
	if direction != models.DirectionLike && direction != models.DirectionSkip {
		return nil, ErrInvalidDirection
	}

	log.Printf("👆 Processing swipe: %s %ss %s", swiperID, direction, targetID)

	swipe := models.Swipe{
		SwiperID:  swiperID,
		TargetID:  targetID,
		Direction: direction,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Dynamo.PutItem(ctx, models.SwipesTable, swipe); err != nil {
		return nil, fmt.Errorf("failed to record swipe: %w", err)
	}

	result := &SwipeResult{}
	if direction != models.DirectionLike {
		return result, nil
	}

	// A like only matches when the target already liked back.
	reverse, err := s.GetSwipe(ctx, targetID, swiperID)
	if err != nil {
		return nil, fmt.Errorf("failed to check reverse swipe: %w", err)
	}
	if reverse == nil || reverse.Direction != models.DirectionLike {
		log.Printf("ℹ️ No reverse like from %s to %s yet", targetID, swiperID)
		return result, nil
	}

	log.Printf("💖 Mutual like detected between %s and %s", swiperID, targetID)
	match, err := s.Matches.CreateMatch(ctx, swiperID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	result.MatchCreated = true
	result.MatchID = match.MatchID
	return result, nil
}
