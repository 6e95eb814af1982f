package model

import (
	"time"

	"github.com/google/uuid"
)

// Mutation actions a request can defer.
const (
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ApprovalRequest status values. Pending is the only non-terminal state.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ApprovalRequest represents a deferred mutation on a protected record.
// Non-super-admin updates and deletes are captured here and only executed
// against the record store after a super-admin approves them.
type ApprovalRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Action     string    `gorm:"type:varchar(10);not null" json:"action"` // update, delete
	Collection string    `gorm:"type:varchar(40);not null;index" json:"collection"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`

	// UpdateData is the proposed replacement field set (update only).
	// ItemDetails is the record snapshot at request time, kept for reviewer
	// context and never re-validated against current state.
	UpdateData  string `gorm:"type:jsonb" json:"update_data,omitempty"`
	ItemDetails string `gorm:"type:jsonb;not null" json:"item_details"`

	RequestedBy string `gorm:"type:varchar(255);not null;index" json:"requested_by"`
	Status      string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	ReviewedBy      *string    `gorm:"type:varchar(255)" json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	// ExecutionError records an apply failure after approval. The approval
	// itself is not rolled back; super-admins can retry the execution.
	ExecutionError string `gorm:"type:text" json:"execution_error,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPending reports whether the request still awaits review.
func (r *ApprovalRequest) IsPending() bool {
	return r.Status == ApprovalPending
}
