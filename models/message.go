package models

// Message is one chat entry belonging to a match. Immutable once created.
type Message struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"`     // ✅ Partition Key
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"` // ✅ Sort Key
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	FileURL   string `dynamodbav:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	FileName  string `dynamodbav:"fileName,omitempty" json:"fileName,omitempty"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
