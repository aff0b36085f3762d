package models

import "time"

// UserProfile is the community-facing identity record, distinct from the
// underlying auth identity (UserID). Level is a cached derivation of XPPoints
// and is only ever written together with it by the XP ledger.
type UserProfile struct {
	ID                 string    `dynamodbav:"profileId" json:"profileId"` // ✅ Partition Key
	UserID             string    `dynamodbav:"userId" json:"userId"`       // external auth id, indexed via GSI
	DisplayName        string    `dynamodbav:"displayName" json:"displayName"`
	Bio                string    `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	PhotoKey           string    `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
	IsVerified         bool      `dynamodbav:"isVerified" json:"isVerified"`
	VerifiedAt         *time.Time `dynamodbav:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	VerificationMethod string    `dynamodbav:"verificationMethod,omitempty" json:"verificationMethod,omitempty"` // booking | id | phone
	XPPoints           int       `dynamodbav:"xpPoints" json:"xpPoints"`
	Level              Level     `dynamodbav:"level" json:"level"`
	PreferredTrekTypes []string  `dynamodbav:"preferredTrekTypes,omitempty" json:"preferredTrekTypes,omitempty"`
	ExperienceLevel    string    `dynamodbav:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`
	CreatedAt          time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// UserIDIndex is the GSI mapping the external auth id to a profile
const UserIDIndex = "userId-index"
