package models

// ✅ Swipe directions
const (
	DirectionLike = "like"
	DirectionSkip = "skip"
)

// ✅ Pending request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// ✅ Match statuses
const (
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
)

// ✅ Match lifecycle constants
const (
	StakeAmount         = 10 // credits each side escrows before chat unlocks
	CompletionBonus     = 8  // credits granted to both sides on settlement
	ProjectDurationDays = 7  // deadline offset applied at match creation
)
