package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID        string   `dynamodbav:"userId" json:"userId"`
	Name          string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Bio           string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Location      string   `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Timezone      string   `dynamodbav:"timezone,omitempty" json:"timezone,omitempty"`
	SkillsOffered []string `dynamodbav:"skillsOffered,omitempty" json:"skillsOffered,omitempty"`
	SkillsNeeded  []string `dynamodbav:"skillsNeeded,omitempty" json:"skillsNeeded,omitempty"`
	Credits       int      `dynamodbav:"credits" json:"credits"`
	CreatedAt     string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
