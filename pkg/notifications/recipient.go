package notifications

import "time"

// Role is the platform role of a user.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleCSOwner       Role = "CS_OWNER"
	RoleAccountOwner  Role = "ACCOUNT_OWNER"
	RoleCompanyMember Role = "COMPANY_MEMBER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCSOwner, RoleAccountOwner, RoleCompanyMember:
		return true
	}
	return false
}

// Preferences are the per-user delivery switches.
// InApp and Email gate the channels, the rest mute whole categories.
type Preferences struct {
	InApp      bool `json:"in_app"`
	Email      bool `json:"email"`
	Deliveries bool `json:"deliveries"`
	Progress   bool `json:"progress"`
	Deadlines  bool `json:"deadlines"`
}

// DefaultPreferences has every switch turned on.
func DefaultPreferences() Preferences {
	return Preferences{InApp: true, Email: true, Deliveries: true, Progress: true, Deadlines: true}
}

// Recipient is the notification-relevant projection of a user.
type Recipient struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	CompanyID   string      `json:"company_id,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Company carries the fields recipient resolution needs.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// CSOwnerUserID is the user account of the assigned CS owner, empty when unassigned.
	CSOwnerUserID string `json:"cs_owner_user_id,omitempty"`
}

// Audience selects which company users a survey or diagnostic targets.
type Audience string

const (
	AudienceAll     Audience = "ALL"
	AudienceOwners  Audience = "OWNERS"
	AudienceMembers Audience = "MEMBERS"
)

// Delivery is a unit of work delivered to a client company.
type Delivery struct {
	ID        string
	Title     string
	CompanyID string
	Progress  int
}

// Dependency is information the client must supply for a delivery to move on.
type Dependency struct {
	ID            string
	Title         string
	DeliveryID    string
	DeliveryTitle string
	CompanyID     string
	DueDate       *time.Time
}

// Comment is a comment on a delivery or on the company page.
type Comment struct {
	ID               string
	CompanyID        string
	DeliveryID       string
	DeliveryTitle    string
	AuthorID         string
	AuthorName       string
	Body             string
	MentionedUserIDs []string
	// ChangeRequest marks client comments that ask for changes.
	ChangeRequest bool
}

// Meeting is a scheduled call with the client.
type Meeting struct {
	ID        string
	Title     string
	CompanyID string
	StartsAt  time.Time
}

// Survey is a satisfaction survey sent to a company.
type Survey struct {
	ID        string
	Title     string
	CompanyID string
	Audience  Audience
}

// SurveyResponse is a completed survey. Score is nil for surveys without a rating.
type SurveyResponse struct {
	Survey         Survey
	RespondentName string
	Score          *float64
}

// Diagnostic is an assessment questionnaire with an AI-generated analysis.
type Diagnostic struct {
	ID        string
	Title     string
	CompanyID string
	Audience  Audience
}
