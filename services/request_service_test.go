package services

import (
	"context"
	"errors"
	"testing"

	"bartr_server/models"
)

func TestCreateRequestDeduplicatesPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 0, nil, nil)
	env.seedProfile(t, "bob", 0, nil, nil)

	first, err := env.requests.CreateRequest(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if first.Status != models.RequestStatusPending {
		t.Errorf("status = %s, want pending", first.Status)
	}

	second, err := env.requests.CreateRequest(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if second.RequestID != first.RequestID {
		t.Errorf("re-proposal created request %s, want existing %s", second.RequestID, first.RequestID)
	}

	if _, err := env.requests.CreateRequest(ctx, "alice", "alice"); !errors.Is(err, ErrSelfTarget) {
		t.Errorf("self request error = %v, want ErrSelfTarget", err)
	}
}

func TestResolveRequestAcceptCreatesMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 0, nil, nil)
	env.seedProfile(t, "bob", 0, nil, nil)

	request, err := env.requests.CreateRequest(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	// Only the receiver may resolve.
	if _, err := env.requests.ResolveRequest(ctx, request.RequestID, "alice", "accept"); !errors.Is(err, ErrNotReceiver) {
		t.Fatalf("sender resolve error = %v, want ErrNotReceiver", err)
	}

	match, err := env.requests.ResolveRequest(ctx, request.RequestID, "bob", "accept")
	if err != nil {
		t.Fatalf("ResolveRequest: %v", err)
	}
	if match == nil {
		t.Fatal("accept must create a match")
	}
	if match.User1ID != "alice" || match.User2ID != "bob" {
		t.Errorf("match pair = (%s, %s), want (alice, bob)", match.User1ID, match.User2ID)
	}
	if match.IsChatEnabled {
		t.Error("accepted match must start with chat disabled")
	}

	// A resolved request is terminal.
	if _, err := env.requests.ResolveRequest(ctx, request.RequestID, "bob", "reject"); !errors.Is(err, ErrRequestResolved) {
		t.Errorf("re-resolve error = %v, want ErrRequestResolved", err)
	}
}

func TestResolveRequestReject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 0, nil, nil)
	env.seedProfile(t, "bob", 0, nil, nil)

	request, err := env.requests.CreateRequest(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	match, err := env.requests.ResolveRequest(ctx, request.RequestID, "bob", "reject")
	if err != nil {
		t.Fatalf("ResolveRequest: %v", err)
	}
	if match != nil {
		t.Error("reject must not create a match")
	}

	stored, err := env.requests.GetRequest(ctx, request.RequestID)
	if err != nil {
		t.Fatalf("GetRequest: %v", err)
	}
	if stored.Status != models.RequestStatusRejected {
		t.Errorf("status = %s, want rejected", stored.Status)
	}

	if _, err := env.requests.ResolveRequest(ctx, request.RequestID, "bob", "maybe"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("bad action error = %v, want ErrInvalidDirection", err)
	}
	if _, err := env.requests.ResolveRequest(ctx, "missing", "bob", "accept"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing request error = %v, want ErrNotFound", err)
	}
}

func TestListRequestsSplitsByDirection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, "alice", 0, nil, nil)
	env.seedProfile(t, "bob", 0, nil, nil)
	env.seedProfile(t, "carol", 0, nil, nil)

	if _, err := env.requests.CreateRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	resolved, err := env.requests.CreateRequest(ctx, "carol", "bob")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if _, err := env.requests.ResolveRequest(ctx, resolved.RequestID, "bob", "reject"); err != nil {
		t.Fatalf("ResolveRequest: %v", err)
	}

	incoming, err := env.requests.ListRequests(ctx, "bob", "incoming")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(incoming) != 1 {
		t.Fatalf("bob has %d incoming requests, want 1 (resolved ones filtered)", len(incoming))
	}
	if incoming[0].SenderID != "alice" {
		t.Errorf("incoming sender = %s, want alice", incoming[0].SenderID)
	}
	if incoming[0].Counterpart.UserID != "alice" {
		t.Errorf("incoming counterpart = %s, want alice's profile", incoming[0].Counterpart.UserID)
	}

	outgoing, err := env.requests.ListRequests(ctx, "alice", "pending")
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(outgoing) != 1 || outgoing[0].ReceiverID != "bob" {
		t.Fatalf("alice's pending list = %+v, want one request to bob", outgoing)
	}

	if _, err := env.requests.ListRequests(ctx, "bob", "sideways"); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("bad list type error = %v, want ErrInvalidDirection", err)
	}
}
