package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bartr_server/models"
	"bartr_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MatchService owns match creation and the match list/detail reads.
type MatchService struct {
	Dynamo   DynamoAPI
	Profiles *UserProfileService
}

// CanonicalPair orders two user ids so the same pair always yields the same
// (user1, user2) regardless of who acted last.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// MatchKey builds the DynamoDB key for a match id.
func MatchKey(matchID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
}

// CreateMatch creates an active match between two users with default
// lifecycle state: no stakes, chat disabled, nothing submitted, deadline
// seven days out. If the pair is already matched the existing match is
// returned, so concurrent mutual likes settle on exactly one match.
func (s *MatchService) CreateMatch(ctx context.Context, userA, userB string) (*models.Match, error) {
	user1, user2 := CanonicalPair(userA, userB)
	pairKey := user1 + "#" + user2

	if existing, err := s.GetMatchByPair(ctx, user1, user2); err != nil {
		return nil, err
	} else if existing != nil {
		log.Printf("ℹ️ Match already exists for pair %s", pairKey)
		return existing, nil
	}

	now := time.Now().UTC()
	match := models.Match{
		MatchID:        uuid.NewString(),
		PairKey:        pairKey,
		User1ID:        user1,
		User2ID:        user2,
		Status:         models.MatchStatusActive,
		CreatedAt:      now.Format(time.RFC3339),
		ProjectEndDate: now.AddDate(0, 0, models.ProjectDurationDays).Format(time.RFC3339),
		StakeAmount:    models.StakeAmount,
	}

	log.Printf("🤝 Creating match %s for pair %s", match.MatchID, pairKey)
	// The pair lock carries the uniqueness guarantee: its put is conditioned
	// on the pair being unclaimed, and the match row rides the same
	// transaction. Two racing creations can both pass the read above; only
	// one transaction commits.
	err := s.Dynamo.TransactWrite(ctx, []TransactOp{
		{
			Table:     models.MatchPairsTable,
			Put:       models.MatchPair{PairKey: pairKey, MatchID: match.MatchID, CreatedAt: match.CreatedAt},
			Condition: "attribute_not_exists(pairKey)",
		},
		{Table: models.MatchesTable, Put: match},
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			log.Printf("ℹ️ Lost match creation race for pair %s, returning the winner", pairKey)
			return s.GetMatchByPair(ctx, user1, user2)
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return &match, nil
}

// GetMatchByPair resolves a pair to its match through the pair-lock row.
func (s *MatchService) GetMatchByPair(ctx context.Context, user1, user2 string) (*models.Match, error) {
	pairKey := user1 + "#" + user2
	item, err := s.Dynamo.GetItem(ctx, models.MatchPairsTable, map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read pair lock: %w", err)
	}
	if item == nil {
		return nil, nil
	}

	var lock models.MatchPair
	if err := attributevalue.UnmarshalMap(item, &lock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pair lock: %w", err)
	}
	return s.GetMatch(ctx, lock.MatchID)
}

// GetMatch fetches a match by id.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, MatchKey(matchID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// GetMatchForUser fetches a match and verifies the caller participates in it.
func (s *MatchService) GetMatchForUser(ctx context.Context, matchID, userID string) (*models.Match, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasUser(userID) {
		return nil, ErrNotParticipant
	}
	return match, nil
}

// GetMatchesByUser returns every match the user is part of, from both side
// indexes.
func (s *MatchService) GetMatchesByUser(ctx context.Context, userID string) ([]models.Match, error) {
	log.Printf("🔍 Fetching matches for user: %s", userID)

	var matches []models.Match
	for _, q := range []struct {
		index string
		field string
	}{
		{models.User1Index, "user1Id"},
		{models.User2Index, "user2Id"},
	} {
		items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, q.index,
			q.field+" = :userId",
			map[string]types.AttributeValue{
				":userId": &types.AttributeValueMemberS{Value: userID},
			}, nil, 100)
		if err != nil {
			return nil, fmt.Errorf("failed to query matches: %w", err)
		}
		for _, item := range items {
			var match models.Match
			if err := attributevalue.UnmarshalMap(item, &match); err != nil {
				log.Printf("⚠️ Skipping unreadable match item: %v", err)
				continue
			}
			matches = append(matches, match)
		}
	}

	log.Printf("✅ Found %d matches for user: %s", len(matches), userID)
	return matches, nil
}

// GetMatchesWithProfiles enriches the user's matches with the partner's
// profile and the latest chat message for the list view.
func (s *MatchService) GetMatchesWithProfiles(ctx context.Context, userID string) ([]models.MatchWithProfile, error) {
	matches, err := s.GetMatchesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.MatchWithProfile, 0, len(matches))
	for _, match := range matches {
		row := models.MatchWithProfile{Match: match}

		partner, err := s.Profiles.GetUserProfile(ctx, match.Partner(userID))
		if err != nil {
			log.Printf("⚠️ Warning: failed to fetch partner profile for match %s: %v", match.MatchID, err)
		} else {
			row.Partner = *partner
		}

		lastMessage, err := s.fetchLastMessage(ctx, match.MatchID)
		if err != nil {
			log.Printf("⚠️ Warning: failed to fetch last message for match %s: %v", match.MatchID, err)
		} else {
			row.LastMessage = lastMessage
		}

		enriched = append(enriched, row)
	}
	return enriched, nil
}

func (s *MatchService) fetchLastMessage(ctx context.Context, matchID string) (string, error) {
	// Reverse sort-key order puts the newest message first.
	items, err := s.Dynamo.QueryItemsDesc(ctx, models.MessagesTable,
		"#matchId = :matchId",
		map[string]types.AttributeValue{
			":matchId": &types.AttributeValueMemberS{Value: matchID},
		},
		map[string]string{"#matchId": "matchId"},
		1)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}
	return utils.ExtractString(items[0], "content"), nil
}
