package types

import "time"

// LogStatus is the state of a workflow log entry.
type LogStatus string

// Log entry states. A pending entry moves to success or error exactly once.
const (
	LogPending LogStatus = "pending"
	LogSuccess LogStatus = "success"
	LogError   LogStatus = "error"
)

// WorkflowLog is one step of an agent run as shown to the user.
type WorkflowLog struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Status    LogStatus `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ContactInfo holds sponsor contact channels.
type ContactInfo struct {
	Website string `json:"website,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Sponsor is the sponsor-shaped projection of an evaluated business, in the
// same shape the recommendation flow produces so it can be tracked alongside.
type Sponsor struct {
	Name              string      `json:"name"`
	Industry          string      `json:"industry"`
	Description       string      `json:"description"`
	TargetAudience    string      `json:"targetAudience"`
	SponsorshipBudget string      `json:"sponsorshipBudget"`
	ContactInfo       ContactInfo `json:"contactInfo"`
	MatchReason       string      `json:"matchReason"`
	CampaignIdeas     []string    `json:"campaignIdeas,omitempty"`
}

// TrackingPayload is what a client stores to track the evaluated sponsor.
type TrackingPayload struct {
	Sponsor     Sponsor   `json:"sponsor"`
	Score       int       `json:"score"`
	Notes       string    `json:"notes"`
	GeneratedAt time.Time `json:"generatedAt"`
	Tags        []string  `json:"tags"`
}

// EvaluationResult is the final output of a successful agent run.
type EvaluationResult struct {
	RunID           string          `json:"runId"`
	Logs            []WorkflowLog   `json:"logs"`
	BusinessInfo    BusinessInfo    `json:"businessInfo"`
	Profile         BusinessProfile `json:"profile"`
	Fit             FitScore        `json:"fit"`
	FinalSummary    string          `json:"finalSummary"`
	TrackingPayload TrackingPayload `json:"trackingPayload"`
}
