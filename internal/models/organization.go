package models

import "time"

type OrganizationRole string

const (
	RoleOwner  OrganizationRole = "owner"
	RoleMember OrganizationRole = "member"
)

type OrganizationMember struct {
	UserID   uint64           `json:"userId"`
	Role     OrganizationRole `json:"role"`
	JoinedAt time.Time        `json:"joinedAt"`
}

type Organization struct {
	ID         uint64               `json:"id"`
	Name       string               `json:"name"`
	InviteCode string               `json:"inviteCode"`
	Members    []OrganizationMember `json:"members"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// HasMember reports whether the user belongs to the organization.
func (o Organization) HasMember(userID uint64) bool {
	for _, m := range o.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberRole returns the role of the user in the organization, if any.
func (o Organization) MemberRole(userID uint64) (OrganizationRole, bool) {
	for _, m := range o.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}
