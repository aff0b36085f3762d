package models

import "time"

// XPTransaction is one row of the append-only XP ledger. Rows are never
// mutated or deleted; their sum per profile reconciles with the profile's
// cached XPPoints counter.
type XPTransaction struct {
	UserProfileID string   `dynamodbav:"userProfileId" json:"userProfileId"` // Partition Key
	ID            string   `dynamodbav:"transactionId" json:"transactionId"` // Sort Key
	Action        XPAction `dynamodbav:"action" json:"action"`
	XPAmount      int      `dynamodbav:"xpAmount" json:"xpAmount"`
	ReferenceID   string   `dynamodbav:"referenceId,omitempty" json:"referenceId,omitempty"`
	ReferenceType string   `dynamodbav:"referenceType,omitempty" json:"referenceType,omitempty"` // booking | group | review | referral
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// XPTransactionsTable is the DynamoDB table name for the XP ledger
const XPTransactionsTable = "XPTransactions"
