package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions for the approval workflow and record management.
const (
	ActionDirectApply           = "DIRECT_APPLY"
	ActionCreateApprovalRequest = "CREATE_APPROVAL_REQUEST"
	ActionApproveRequest        = "APPROVE_REQUEST"
	ActionRejectRequest         = "REJECT_REQUEST"
	ActionClearRequest          = "CLEAR_REQUEST"
	ActionRetryExecution        = "RETRY_EXECUTION"
	ActionCreateRecord          = "CREATE_RECORD"
	ActionCreateCustomer        = "CREATE_CUSTOMER"
	ActionDeleteCustomer        = "DELETE_CUSTOMER"
)

// AuditLog tracks who did what and when for critical changes.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Actor      string    `gorm:"type:varchar(255);not null;index" json:"actor"` // identity email
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Collection string    `gorm:"type:varchar(40);index" json:"collection"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`
	Details    string    `gorm:"type:jsonb" json:"details"` // serialized JSON payload
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
