package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bartr_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// RequestService handles the pending-request variant of matching: one user
// proposes a connection, the receiver accepts or rejects it.
type RequestService struct {
	Dynamo   DynamoAPI
	Matches  *MatchService
	Profiles *UserProfileService
}

// CreateRequest records a directional connection proposal. Re-proposing the
// same pair while a request is still pending is a no-op returning the
// existing request.
func (s *RequestService) CreateRequest(ctx context.Context, senderID, receiverID string) (*models.PendingRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfTarget
	}

	if existing, err := s.findPendingBetween(ctx, senderID, receiverID); err != nil {
		return nil, err
	} else if existing != nil {
		log.Printf("ℹ️ Pending request already exists from %s to %s", senderID, receiverID)
		return existing, nil
	}

	request := models.PendingRequest{
		RequestID:  uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.RequestStatusPending,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	log.Printf("📨 Creating pending request %s: %s -> %s", request.RequestID, senderID, receiverID)
	if err := s.Dynamo.PutItem(ctx, models.PendingRequestsTable, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return &request, nil
}

// GetRequest fetches a pending request by id.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*models.PendingRequest, error) {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.PendingRequestsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	var request models.PendingRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return &request, nil
}

// ResolveRequest transitions a pending request to accepted or rejected. Only
// the receiver may resolve it, and a resolved request is terminal. Accepting
// creates the match with default lifecycle state.
func (s *RequestService) ResolveRequest(ctx context.Context, requestID, actorID, action string) (*models.Match, error) {
	if action != "accept" && action != "reject" {
		return nil, fmt.Errorf("%w: action must be 'accept' or 'reject'", ErrInvalidDirection)
	}

	request, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != actorID {
		return nil, ErrNotReceiver
	}
	if request.Status != models.RequestStatusPending {
		return nil, ErrRequestResolved
	}

	newStatus := models.RequestStatusRejected
	if action == "accept" {
		newStatus = models.RequestStatusAccepted
	}

	// The status guard keeps a double resolve from flipping the outcome.
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	_, err = s.Dynamo.UpdateItemWithCondition(ctx, models.PendingRequestsTable,
		"SET #status = :status", key,
		map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: newStatus},
			":pending": &types.AttributeValueMemberS{Value: models.RequestStatusPending},
		},
		map[string]string{"#status": "status"},
		"#status = :pending")
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return nil, ErrRequestResolved
		}
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	log.Printf("✅ Request %s resolved to %s by %s", requestID, newStatus, actorID)
	if newStatus != models.RequestStatusAccepted {
		return nil, nil
	}

	match, err := s.Matches.CreateMatch(ctx, request.SenderID, request.ReceiverID)
	if err != nil {
		// The request was still resolved; surface the match failure.
		return nil, fmt.Errorf("request accepted but match creation failed: %w", err)
	}
	return match, nil
}

// ListRequests returns the user's incoming (received, pending) or pending
// (sent, pending) requests joined with the counterpart's profile.
func (s *RequestService) ListRequests(ctx context.Context, userID, listType string) ([]models.RequestWithProfile, error) {
	var index, field string
	switch listType {
	case "incoming":
		index, field = models.ReceiverIndex, "receiverId"
	case "pending":
		index, field = models.SenderIndex, "senderId"
	default:
		return nil, fmt.Errorf("%w: type must be 'incoming' or 'pending'", ErrInvalidDirection)
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.PendingRequestsTable, index,
		field+" = :userId",
		map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		}, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	results := make([]models.RequestWithProfile, 0, len(items))
	for _, item := range items {
		var request models.PendingRequest
		if err := attributevalue.UnmarshalMap(item, &request); err != nil {
			log.Printf("⚠️ Skipping unreadable request item: %v", err)
			continue
		}
		if request.Status != models.RequestStatusPending {
			continue
		}

		row := models.RequestWithProfile{PendingRequest: request}
		counterpartID := request.SenderID
		if listType == "pending" {
			counterpartID = request.ReceiverID
		}
		if profile, err := s.Profiles.GetUserProfile(ctx, counterpartID); err != nil {
			log.Printf("⚠️ Warning: failed to fetch profile for %s: %v", counterpartID, err)
		} else {
			row.Counterpart = *profile
		}
		results = append(results, row)
	}

	log.Printf("✅ Found %d %s requests for %s", len(results), listType, userID)
	return results, nil
}

func (s *RequestService) findPendingBetween(ctx context.Context, senderID, receiverID string) (*models.PendingRequest, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.PendingRequestsTable, models.SenderIndex,
		"senderId = :senderId",
		map[string]types.AttributeValue{
			":senderId": &types.AttributeValueMemberS{Value: senderID},
		}, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	for _, item := range items {
		var request models.PendingRequest
		if err := attributevalue.UnmarshalMap(item, &request); err != nil {
			continue
		}
		if request.ReceiverID == receiverID && request.Status == models.RequestStatusPending {
			return &request, nil
		}
	}
	return nil, nil
}
