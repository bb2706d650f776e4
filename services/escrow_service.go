package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bartr_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchEventPublisher pushes match-state changes to open realtime sessions.
// Delivery is best effort: a missed event leaves a client stale until its
// next refetch.
type MatchEventPublisher interface {
	PublishMatchUpdated(matchID string, match *models.Match)
	PublishNewMessage(matchID string, message models.Message)
}

// EscrowService owns the credit lifecycle of a match: staking, settlement on
// confirmed completion, and forced resolution of expired matches.
type EscrowService struct {
	Dynamo   DynamoAPI
	Matches  *MatchService
	Profiles *UserProfileService
	Events   MatchEventPublisher
}

// Stake escrows the match's stake amount from the actor's balance and marks
// the actor's side as staked. The debit and the flag flip ride one
// transaction, so a failure of either leaves both untouched. Chat unlocks
// once the counterpart's stake is also in.
func (s *EscrowService) Stake(ctx context.Context, matchID, actorID string) (*models.Match, error) {
	match, err := s.Matches.GetMatchForUser(ctx, matchID, actorID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusActive {
		return nil, ErrMatchCompleted
	}

	flag := "stakeStatusUser1"
	alreadyStaked := match.StakeStatusUser1
	if actorID == match.User2ID {
		flag = "stakeStatusUser2"
		alreadyStaked = match.StakeStatusUser2
	}
	if alreadyStaked {
		return nil, ErrAlreadyStaked
	}

	log.Printf("💰 %s staking %d credits on match %s", actorID, match.StakeAmount, matchID)
	err = s.Dynamo.TransactWrite(ctx, []TransactOp{
		DebitCreditsOp(actorID, match.StakeAmount),
		{
			Table:            models.MatchesTable,
			Key:              MatchKey(matchID),
			UpdateExpression: "SET " + flag + " = :true",
			Condition:        "#status = :active AND " + flag + " = :false",
			Values: map[string]types.AttributeValue{
				":true":   &types.AttributeValueMemberBOOL{Value: true},
				":false":  &types.AttributeValueMemberBOOL{Value: false},
				":active": &types.AttributeValueMemberS{Value: models.MatchStatusActive},
			},
			Names: map[string]string{"#status": "status"},
		},
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			// Either the balance can't cover the stake or a concurrent call
			// beat us to the flag; the balance readback decides which.
			profile, perr := s.Profiles.GetUserProfile(ctx, actorID)
			if perr == nil && profile.Credits < match.StakeAmount {
				return nil, ErrInsufficientCredits
			}
			return nil, ErrAlreadyStaked
		}
		return nil, fmt.Errorf("failed to stake: %w", err)
	}

	// Flip chat on only when both flags hold; the condition failing just
	// means the counterpart hasn't staked yet.
	_, err = s.Dynamo.UpdateItemWithCondition(ctx, models.MatchesTable,
		"SET isChatEnabled = :true", MatchKey(matchID),
		map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		}, nil,
		"stakeStatusUser1 = :true AND stakeStatusUser2 = :true")
	if err != nil && !IsConditionalCheckFailed(err) {
		return nil, fmt.Errorf("failed to update chat flag: %w", err)
	}

	updated, err := s.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if updated.IsChatEnabled {
		log.Printf("💬 Chat enabled for match %s", matchID)
	}
	s.publishMatchUpdated(matchID, updated)
	return updated, nil
}

// ConfirmCompletion settles the match: both stakes refunded plus the
// completion bonus for each side, status flipped to completed. The status
// guard inside the transaction makes settlement run exactly once no matter
// how many confirms race.
func (s *EscrowService) ConfirmCompletion(ctx context.Context, matchID, actorID string) (*models.Match, error) {
	match, err := s.Matches.GetMatchForUser(ctx, matchID, actorID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusActive {
		return nil, ErrMatchCompleted
	}
	if !match.ProjectSubmittedUser1 || !match.ProjectSubmittedUser2 {
		return nil, ErrBothMustSubmit
	}

	payout := match.StakeAmount + models.CompletionBonus
	log.Printf("🏁 Settling match %s: %d credits to each of %s and %s", matchID, payout, match.User1ID, match.User2ID)

	err = s.Dynamo.TransactWrite(ctx, []TransactOp{
		{
			Table:            models.MatchesTable,
			Key:              MatchKey(matchID),
			UpdateExpression: "SET #status = :completed",
			Condition:        "#status = :active",
			Values: map[string]types.AttributeValue{
				":completed": &types.AttributeValueMemberS{Value: models.MatchStatusCompleted},
				":active":    &types.AttributeValueMemberS{Value: models.MatchStatusActive},
			},
			Names: map[string]string{"#status": "status"},
		},
		AddCreditsOp(match.User1ID, payout),
		AddCreditsOp(match.User2ID, payout),
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, ErrMatchCompleted
		}
		return nil, fmt.Errorf("failed to settle match: %w", err)
	}

	updated, err := s.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	s.publishMatchUpdated(matchID, updated)
	return updated, nil
}

// SweepReport summarizes one expiry sweep run.
type SweepReport struct {
	Processed    []string       `json:"processed"`
	Failed       []SweepFailure `json:"failed"`
	TotalExpired int            `json:"total_expired"`
}

// SweepFailure records a match the sweep could not resolve.
type SweepFailure struct {
	MatchID string `json:"id"`
	Error   string `json:"error"`
}

// SweepExpiredMatches resolves every chat-enabled match past its deadline
// where exactly one side submitted. Failures are logged and skipped, not
// retried within the run.
func (s *EscrowService) SweepExpiredMatches(ctx context.Context) (*SweepReport, error) {
	log.Println("🧹 Starting expired matches sweep...")
	now := time.Now().UTC().Format(time.RFC3339)

	var all []models.Match
	if err := s.Dynamo.ScanWithFilter(ctx, models.MatchesTable, nil, nil, &all); err != nil {
		return nil, fmt.Errorf("failed to scan matches: %w", err)
	}

	report := &SweepReport{Processed: []string{}, Failed: []SweepFailure{}}
	for _, match := range all {
		if match.Status != models.MatchStatusActive || !match.IsChatEnabled {
			continue
		}
		// RFC3339 UTC timestamps order lexicographically.
		if match.ProjectEndDate == "" || match.ProjectEndDate >= now {
			continue
		}
		if match.ProjectSubmittedUser1 == match.ProjectSubmittedUser2 {
			continue
		}

		report.TotalExpired++
		if err := s.ResolveExpiredMatch(ctx, &match); err != nil {
			log.Printf("❌ Failed to process expired match %s: %v", match.MatchID, err)
			report.Failed = append(report.Failed, SweepFailure{MatchID: match.MatchID, Error: err.Error()})
			continue
		}
		log.Printf("✅ Processed expired match %s", match.MatchID)
		report.Processed = append(report.Processed, match.MatchID)
	}

	log.Printf("🧹 Expired matches sweep done: %d processed, %d failed", len(report.Processed), len(report.Failed))
	return report, nil
}

// ResolveExpiredMatch force-terminates an expired match with asymmetric
// submission state: the side that submitted gets its stake back, the
// defaulting side forfeits.
func (s *EscrowService) ResolveExpiredMatch(ctx context.Context, match *models.Match) error {
	submitter := match.User1ID
	if match.ProjectSubmittedUser2 {
		submitter = match.User2ID
	}

	err := s.Dynamo.TransactWrite(ctx, []TransactOp{
		{
			Table:            models.MatchesTable,
			Key:              MatchKey(match.MatchID),
			UpdateExpression: "SET #status = :completed",
			Condition:        "#status = :active",
			Values: map[string]types.AttributeValue{
				":completed": &types.AttributeValueMemberS{Value: models.MatchStatusCompleted},
				":active":    &types.AttributeValueMemberS{Value: models.MatchStatusActive},
			},
			Names: map[string]string{"#status": "status"},
		},
		AddCreditsOp(submitter, match.StakeAmount),
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			// Settled by a racing confirm or an earlier run; nothing to do.
			return nil
		}
		return fmt.Errorf("failed to resolve expired match: %w", err)
	}

	if updated, err := s.Matches.GetMatch(ctx, match.MatchID); err == nil {
		s.publishMatchUpdated(match.MatchID, updated)
	}
	return nil
}

func (s *EscrowService) publishMatchUpdated(matchID string, match *models.Match) {
	if s.Events != nil {
		s.Events.PublishMatchUpdated(matchID, match)
	}
}
