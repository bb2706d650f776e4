package models

// PendingRequest is a one-directional connection proposal requiring an
// explicit accept or reject from the receiver.
type PendingRequest struct {
	RequestID  string `dynamodbav:"requestId" json:"requestId"`   // ✅ Partition Key
	SenderID   string `dynamodbav:"senderId" json:"senderId"`     // ✅ Used in GSI
	ReceiverID string `dynamodbav:"receiverId" json:"receiverId"` // ✅ Used in GSI
	Status     string `dynamodbav:"status" json:"status"`         // pending, accepted, rejected
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// RequestWithProfile joins a pending request with the counterpart's profile
// fields for the requests list views.
type RequestWithProfile struct {
	PendingRequest
	Counterpart UserProfile `json:"counterpart"`
}

// PendingRequestsTable is the DynamoDB table name for pending requests
const PendingRequestsTable = "PendingRequests"

// GSI names used to list a user's incoming and outgoing requests
const (
	ReceiverIndex = "receiverId-index"
	SenderIndex   = "senderId-index"
)
