package models

// CreditGrant marks a checkout session whose credits were already granted,
// so re-verifying the same session never pays out twice.
type CreditGrant struct {
	SessionID string `dynamodbav:"sessionId" json:"sessionId"` // ✅ Partition Key
	UserID    string `dynamodbav:"userId" json:"userId"`
	Credits   int    `dynamodbav:"credits" json:"credits"`
	GrantedAt string `dynamodbav:"grantedAt" json:"grantedAt"`
}

// CreditGrantsTable is the DynamoDB table name for processed checkout sessions
const CreditGrantsTable = "CreditGrants"
