package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"bartr_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// racingDynamo holds the first two pair-lock reads until both racers have
// issued theirs, so both creation attempts get past the existence check the
// way two real callers separated by network latency would.
type racingDynamo struct {
	*fakeDynamo
	reads int32
	both  sync.WaitGroup
}

func (d *racingDynamo) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	item, err := d.fakeDynamo.GetItem(ctx, tableName, key)
	if tableName == models.MatchPairsTable && atomic.AddInt32(&d.reads, 1) <= 2 {
		d.both.Done()
		d.both.Wait()
	}
	return item, err
}

func TestCreateMatchConcurrentCreatesOneMatch(t *testing.T) {
	inner := newFakeDynamo()
	dynamo := &racingDynamo{fakeDynamo: inner}
	dynamo.both.Add(2)
	matches := &MatchService{Dynamo: dynamo, Profiles: &UserProfileService{Dynamo: dynamo}}
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		results [2]*models.Match
		errs    [2]error
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = matches.CreateMatch(ctx, "alice", "bob")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("CreateMatch racer %d: %v", i, err)
		}
	}
	if results[0].MatchID != results[1].MatchID {
		t.Errorf("racing creations returned matches %s and %s, want the same one",
			results[0].MatchID, results[1].MatchID)
	}

	var all []models.Match
	if err := inner.ScanWithFilter(ctx, models.MatchesTable, nil, nil, &all); err != nil {
		t.Fatalf("ScanWithFilter: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d matches for pair alice/bob, want exactly 1", len(all))
	}
}

func TestCreateMatchReturnsExistingForPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.matches.CreateMatch(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	// Reversed order resolves to the same canonical pair.
	second, err := env.matches.CreateMatch(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if second.MatchID != first.MatchID {
		t.Errorf("second creation returned match %s, want existing %s", second.MatchID, first.MatchID)
	}
}

func TestFetchLastMessageReturnsNewest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 50, nil, nil)
	env.seedProfile(t, "bob", 50, nil, nil)

	match := env.stakedMatch(t, "alice", "bob")
	for _, content := range []string{"first", "second", "third"} {
		if _, err := env.chat.SendMessage(ctx, match.MatchID, "alice", content); err != nil {
			t.Fatalf("SendMessage(%s): %v", content, err)
		}
	}

	last, err := env.matches.fetchLastMessage(ctx, match.MatchID)
	if err != nil {
		t.Fatalf("fetchLastMessage: %v", err)
	}
	if last != "third" {
		t.Errorf("last message = %q, want %q", last, "third")
	}
}
