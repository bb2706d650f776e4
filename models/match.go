package models

// Match pairs two users for a bartering engagement and carries the full
// stake/chat/submission lifecycle state. User1ID < User2ID always, so the
// same pair can never produce two differently ordered matches.
type Match struct {
	MatchID               string `dynamodbav:"matchId" json:"matchId"` // ✅ Partition Key
	PairKey               string `dynamodbav:"pairKey" json:"-"`       // ✅ "user1#user2", mirrors the pair-lock key
	User1ID               string `dynamodbav:"user1Id" json:"user1Id"`
	User2ID               string `dynamodbav:"user2Id" json:"user2Id"`
	Status                string `dynamodbav:"status" json:"status"` // active, completed
	CreatedAt             string `dynamodbav:"createdAt" json:"createdAt"`
	ProjectEndDate        string `dynamodbav:"projectEndDate,omitempty" json:"projectEndDate,omitempty"`
	StakeAmount           int    `dynamodbav:"stakeAmount" json:"stakeAmount"`
	StakeStatusUser1      bool   `dynamodbav:"stakeStatusUser1" json:"stakeStatusUser1"`
	StakeStatusUser2      bool   `dynamodbav:"stakeStatusUser2" json:"stakeStatusUser2"`
	IsChatEnabled         bool   `dynamodbav:"isChatEnabled" json:"isChatEnabled"`
	ProjectSubmittedUser1 bool   `dynamodbav:"projectSubmittedUser1" json:"projectSubmittedUser1"`
	ProjectSubmittedUser2 bool   `dynamodbav:"projectSubmittedUser2" json:"projectSubmittedUser2"`
}

// HasUser reports whether userID is one of the two participants.
func (m *Match) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Partner returns the other participant's id.
func (m *Match) Partner(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// MatchWithProfile enriches a match with the counterpart's profile and the
// latest chat message for the matches list view.
type MatchWithProfile struct {
	Match
	Partner     UserProfile `json:"partner"`
	LastMessage string      `json:"lastMessage,omitempty"`
}

// MatchPair is the pair-lock row claimed when a match is created. Its
// partition key is the canonical pair, so a conditional put on it is what
// keeps a pair from ever holding two matches.
type MatchPair struct {
	PairKey   string `dynamodbav:"pairKey" json:"pairKey"` // ✅ Partition Key, "user1#user2"
	MatchID   string `dynamodbav:"matchId" json:"matchId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// MatchPairsTable holds one pair-lock row per matched pair
const MatchPairsTable = "MatchPairs"

// GSI names for match lookups
const (
	User1Index = "user1Id-index"
	User2Index = "user2Id-index"
)
