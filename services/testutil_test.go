package services

import (
	"context"
	"sync"
	"testing"

	"bartr_server/models"
)

// fakeEvents records published match events for assertions.
type fakeEvents struct {
	mu           sync.Mutex
	matchUpdates []string
	messages     []models.Message
}

func (e *fakeEvents) PublishMatchUpdated(matchID string, _ *models.Match) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matchUpdates = append(e.matchUpdates, matchID)
}

func (e *fakeEvents) PublishNewMessage(_ string, message models.Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, message)
}

// testEnv wires every service over one in-memory store.
type testEnv struct {
	dynamo      *fakeDynamo
	events      *fakeEvents
	profiles    *UserProfileService
	matches     *MatchService
	swipes      *SwipeService
	requests    *RequestService
	escrow      *EscrowService
	submissions *SubmissionService
	chat        *ChatService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dynamo := newFakeDynamo()
	events := &fakeEvents{}
	profiles := &UserProfileService{Dynamo: dynamo}
	matches := &MatchService{Dynamo: dynamo, Profiles: profiles}

	return &testEnv{
		dynamo:      dynamo,
		events:      events,
		profiles:    profiles,
		matches:     matches,
		swipes:      &SwipeService{Dynamo: dynamo, Matches: matches},
		requests:    &RequestService{Dynamo: dynamo, Matches: matches, Profiles: profiles},
		escrow:      &EscrowService{Dynamo: dynamo, Matches: matches, Profiles: profiles, Events: events},
		submissions: &SubmissionService{Dynamo: dynamo, Matches: matches, Events: events},
		chat:        &ChatService{Dynamo: dynamo, Matches: matches, Events: events},
	}
}

func (env *testEnv) seedProfile(t *testing.T, userID string, credits int, offered, needed []string) {
	t.Helper()

	profile := models.UserProfile{
		UserID:        userID,
		Name:          "User " + userID,
		SkillsOffered: offered,
		SkillsNeeded:  needed,
		Credits:       credits,
	}
	if err := env.dynamo.PutItem(context.Background(), models.UserProfilesTable, profile); err != nil {
		t.Fatalf("seedProfile(%s): %v", userID, err)
	}
}

func (env *testEnv) credits(t *testing.T, userID string) int {
	t.Helper()

	profile, err := env.profiles.GetUserProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("credits(%s): %v", userID, err)
	}
	return profile.Credits
}

// stakedMatch creates a match with both sides staked so chat is open.
func (env *testEnv) stakedMatch(t *testing.T, userA, userB string) *models.Match {
	t.Helper()
	ctx := context.Background()

	match, err := env.matches.CreateMatch(ctx, userA, userB)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	for _, user := range []string{userA, userB} {
		if match, err = env.escrow.Stake(ctx, match.MatchID, user); err != nil {
			t.Fatalf("Stake(%s): %v", user, err)
		}
	}
	if !match.IsChatEnabled {
		t.Fatal("expected chat enabled after both stakes")
	}
	return match
}
