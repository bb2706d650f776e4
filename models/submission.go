package models

// Submission is one side's completed-work artifact for a match, keyed
// (matchId, userId) so each participant gets exactly one slot.
type Submission struct {
	MatchID     string `dynamodbav:"matchId" json:"matchId"` // ✅ Partition Key
	UserID      string `dynamodbav:"userId" json:"userId"`   // ✅ Sort Key
	Content     string `dynamodbav:"content" json:"content"`
	SubmittedAt string `dynamodbav:"submittedAt" json:"submittedAt"`
}

// SubmissionsTable is the DynamoDB table name for work submissions
const SubmissionsTable = "Submissions"
