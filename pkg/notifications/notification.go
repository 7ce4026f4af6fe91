package notifications

import (
	"time"
)

// Type is the closed set of business events a notification can describe.
type Type string

const (
	TypeDependencyAdded     Type = "DEPENDENCY_ADDED"
	TypeDependencyProvided  Type = "DEPENDENCY_PROVIDED"
	TypeDependencyOverdue   Type = "DEPENDENCY_OVERDUE"
	TypeDeliveryProgress    Type = "DELIVERY_PROGRESS"
	TypeDeliveryCompleted   Type = "DELIVERY_COMPLETED"
	TypeDeliveryApproved    Type = "DELIVERY_APPROVED"
	TypeClientComment       Type = "CLIENT_COMMENT"
	TypeCommentAnswered     Type = "COMMENT_ANSWERED"
	TypeMention             Type = "MENTION"
	TypeMeetingScheduled    Type = "MEETING_SCHEDULED"
	TypeSurveyPending       Type = "SURVEY_PENDING"
	TypeSurveyCompleted     Type = "SURVEY_COMPLETED"
	TypeSurveyLowScore      Type = "SURVEY_LOW_SCORE"
	TypeDiagnosticPending   Type = "DIAGNOSTIC_PENDING"
	TypeDiagnosticCompleted Type = "DIAGNOSTIC_COMPLETED"
	TypeManualMessage       Type = "MANUAL_MESSAGE"
	TypeBroadcast           Type = "BROADCAST"
)

// AllTypes lists every notification type in declaration order.
var AllTypes = []Type{
	TypeDependencyAdded,
	TypeDependencyProvided,
	TypeDependencyOverdue,
	TypeDeliveryProgress,
	TypeDeliveryCompleted,
	TypeDeliveryApproved,
	TypeClientComment,
	TypeCommentAnswered,
	TypeMention,
	TypeMeetingScheduled,
	TypeSurveyPending,
	TypeSurveyCompleted,
	TypeSurveyLowScore,
	TypeDiagnosticPending,
	TypeDiagnosticCompleted,
	TypeManualMessage,
	TypeBroadcast,
}

// Valid reports whether t is one of the known notification types.
func (t Type) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EmailStatus tracks what happened on the email path of a notification.
type EmailStatus string

const (
	// EmailNotAttempted means the email path never ran: the recipient has
	// email disabled, the category is muted, or there is no address.
	EmailNotAttempted EmailStatus = "not_attempted"
	EmailFailed       EmailStatus = "failed"
	EmailSent         EmailStatus = "sent"
)

// Notification is a persisted, per-recipient notification row.
type Notification struct {
	ID          string      `json:"id"`
	Type        Type        `json:"type"`
	Title       string      `json:"title"`
	Message     string      `json:"message"`
	Link        string      `json:"link,omitempty"`
	RecipientID string      `json:"recipient_id"`
	SenderID    string      `json:"sender_id,omitempty"`
	DeliveryID  string      `json:"delivery_id,omitempty"`
	CompanyID   string      `json:"company_id,omitempty"`
	Read        bool        `json:"read"`
	ReadAt      *time.Time  `json:"read_at,omitempty"`
	EmailSent   bool        `json:"email_sent"`
	EmailStatus EmailStatus `json:"email_status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// MarkAsRead flips the read flag and stamps the read time.
func (n *Notification) MarkAsRead() {
	if n.Read {
		return
	}
	n.Read = true
	now := time.Now()
	n.ReadAt = &now
}

// SetEmailStatus records the email outcome and keeps EmailSent in sync.
func (n *Notification) SetEmailStatus(status EmailStatus) {
	n.EmailStatus = status
	n.EmailSent = status == EmailSent
}

// CreateInput describes a single notification to persist and deliver.
type CreateInput struct {
	Type        Type   `validate:"required"`
	Title       string `validate:"required"`
	Message     string `validate:"required"`
	RecipientID string `validate:"required"`
	Link        string
	SenderID    string
	DeliveryID  string
	CompanyID   string
}
