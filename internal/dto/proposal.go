package dto

import (
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
)

// ProposalDetailDTO is a proposal with its computed payment breakdown.
type ProposalDetailDTO struct {
	Proposal  models.Proposal    `json:"proposal"`
	Breakdown services.Breakdown `json:"breakdown"`
}

// ToProposalDetailDTO pairs a proposal with its breakdown
func ToProposalDetailDTO(proposal models.Proposal, breakdown services.Breakdown) ProposalDetailDTO {
	return ProposalDetailDTO{
		Proposal:  proposal,
		Breakdown: breakdown,
	}
}
