package models

import "time"

type ExecutionMethod string

const (
	ExecutionCompletion ExecutionMethod = "completion"
	ExecutionMilestone  ExecutionMethod = "milestone"
	ExecutionHourly     ExecutionMethod = "hourly"
)

type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

type StartType string

const (
	StartImmediately StartType = "immediately"
	StartCustom      StartType = "custom"
)

type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Amount      float64    `json:"amount"`
}

type Proposal struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	OrganizationID  uint64          `json:"organizationId"`
	FreelancerID    uint64          `json:"freelancerId"`
	ExecutionMethod ExecutionMethod `json:"executionMethod"`
	Status          ProposalStatus  `json:"status"`

	TotalBid  float64 `json:"totalBid"`
	BudgetMin float64 `json:"budgetMin"`
	BudgetMax float64 `json:"budgetMax"`

	StartType       StartType  `json:"startType"`
	CustomStartDate *time.Time `json:"customStartDate"`
	EndDate         *time.Time `json:"endDate"`

	// Hourly execution only.
	Rate           float64 `json:"rate"`
	MaxHoursPerDay float64 `json:"maxHoursPerDay"`

	Milestones []Milestone `json:"milestones"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft reports whether the proposal is still auto-saving.
func (p Proposal) Draft() bool {
	return p.Status == ProposalStatusDraft
}
