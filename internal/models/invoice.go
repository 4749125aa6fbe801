package models

import "time"

type InvoiceKind string

const (
	InvoiceKindUpfront    InvoiceKind = "upfront"
	InvoiceKindMilestone  InvoiceKind = "milestone"
	InvoiceKindCompletion InvoiceKind = "completion"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

type Invoice struct {
	ID             string        `json:"id"`
	ProposalID     string        `json:"proposalId"`
	OrganizationID uint64        `json:"organizationId"`
	MilestoneID    string        `json:"milestoneId,omitempty"`
	Kind           InvoiceKind   `json:"kind"`
	Amount         float64       `json:"amount"`
	Status         InvoiceStatus `json:"status"`
	IssuedAt       time.Time     `json:"issuedAt"`
	PaidAt         *time.Time    `json:"paidAt"`
}
