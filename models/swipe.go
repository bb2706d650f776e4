package models

// Swipe records one user's directional interest in another.
// Keyed (swiperId, targetId), so re-swiping the same target upserts
// the direction in place instead of creating a second record.
type Swipe struct {
	SwiperID  string `dynamodbav:"swiperId" json:"swiperId"` // ✅ Partition Key
	TargetID  string `dynamodbav:"targetId" json:"targetId"` // ✅ Sort Key
	Direction string `dynamodbav:"direction" json:"direction"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// SwipesTable is the DynamoDB table name for swipe records
const SwipesTable = "Swipes"
