package models

import "time"

type ProjectStatus string

const (
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusPaused    ProjectStatus = "paused"
	ProjectStatusCompleted ProjectStatus = "completed"
)

type Project struct {
	ProjectID      string        `json:"projectId"`
	Title          string        `json:"title"`
	OrganizationID uint64        `json:"organizationId"`
	CommissionerID uint64        `json:"commissionerId"`
	FreelancerID   uint64        `json:"freelancerId"`
	TypeTags       []string      `json:"typeTags"`
	Status         ProjectStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Paused reports whether the project is excluded from the today queue.
func (p Project) Paused() bool {
	return p.Status == ProjectStatusPaused
}

// FirstTypeTag returns the leading type tag, or "" when none is set.
func (p Project) FirstTypeTag() string {
	if len(p.TypeTags) == 0 {
		return ""
	}
	return p.TypeTags[0]
}
