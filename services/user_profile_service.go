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

type UserProfileService struct {
	Dynamo DynamoAPI
}

// ProfileUpdate carries the editable profile fields. Nil pointers are left
// untouched so partial saves don't clobber existing values.
type ProfileUpdate struct {
	Name          *string   `json:"name,omitempty"`
	Bio           *string   `json:"bio,omitempty"`
	Location      *string   `json:"location,omitempty"`
	Timezone      *string   `json:"timezone,omitempty"`
	SkillsOffered *[]string `json:"skillsOffered,omitempty"`
	SkillsNeeded  *[]string `json:"skillsNeeded,omitempty"`
}

// EnsureProfile returns the profile for userID, creating an empty one with a
// zero credit balance on the user's first authenticated touch.
func (ups *UserProfileService) EnsureProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := ups.GetUserProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	log.Printf("🆕 No profile for user %s, creating one", userID)
	fresh := models.UserProfile{
		UserID:    userID,
		Credits:   0,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := ups.Dynamo.PutItemWithCondition(ctx, models.UserProfilesTable, fresh, "attribute_not_exists(userId)"); err != nil {
		// Lost a creation race: the profile exists now, fetch it.
		if IsConditionalCheckFailed(err) {
			return ups.GetUserProfile(ctx, userID)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &fresh, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// UpdateUserProfile applies the non-nil fields of update to the user's profile.
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	set := func(field string, value interface{}) error {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", field, err)
		}
		placeholder := ":" + field
		attributeName := "#" + field
		updateExpression += " " + attributeName + " = " + placeholder + ","
		expressionAttributeValues[placeholder] = av
		expressionAttributeNames[attributeName] = field
		return nil
	}

	if update.Name != nil {
		if err := set("name", *update.Name); err != nil {
			return nil, err
		}
	}
	if update.Bio != nil {
		if err := set("bio", *update.Bio); err != nil {
			return nil, err
		}
	}
	if update.Location != nil {
		if err := set("location", *update.Location); err != nil {
			return nil, err
		}
	}
	if update.Timezone != nil {
		if err := set("timezone", *update.Timezone); err != nil {
			return nil, err
		}
	}
	if update.SkillsOffered != nil {
		if err := set("skillsOffered", *update.SkillsOffered); err != nil {
			return nil, err
		}
	}
	if update.SkillsNeeded != nil {
		if err := set("skillsNeeded", *update.SkillsNeeded); err != nil {
			return nil, err
		}
	}

	if len(expressionAttributeValues) == 0 {
		return ups.GetUserProfile(ctx, userID)
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression, key, expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &updatedProfile, nil
}

// BrowseUsers returns every profile except the caller's own.
func (ups *UserProfileService) BrowseUsers(ctx context.Context, userID string) ([]models.UserProfile, error) {
	log.Printf("🔍 Browsing users for %s", userID)

	var profiles []models.UserProfile
	err := ups.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, nil, map[string]string{"userId": userID}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to browse users: %w", err)
	}

	log.Printf("✅ Found %d browsable users for %s", len(profiles), userID)
	return profiles, nil
}

// AddCredits grants amount credits to the user. The ADD expression is a
// single atomic counter bump, so concurrent grants never lose an update.
func (ups *UserProfileService) AddCredits(ctx context.Context, userID string, amount int) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, "ADD credits :amount", key,
		map[string]types.AttributeValue{
			":amount": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", amount)},
		}, nil)
	if err != nil {
		return fmt.Errorf("failed to add credits for %s: %w", userID, err)
	}
	return nil
}

// DebitCreditsOp builds the guarded debit used inside stake transactions:
// the balance only moves when it covers the amount.
func DebitCreditsOp(userID string, amount int) TransactOp {
	return TransactOp{
		Table: models.UserProfilesTable,
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: "ADD credits :debit",
		Condition:        "credits >= :amount",
		Values: map[string]types.AttributeValue{
			":debit":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", -amount)},
			":amount": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", amount)},
		},
	}
}

// AddCreditsOp builds the unguarded credit grant used inside settlement
// transactions.
func AddCreditsOp(userID string, amount int) TransactOp {
	return TransactOp{
		Table: models.UserProfilesTable,
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: "ADD credits :amount",
		Values: map[string]types.AttributeValue{
			":amount": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", amount)},
		},
	}
}
