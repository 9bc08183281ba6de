package domain

// Role 觀看者角色
type Role string

const (
	// RoleAdmin sees every level and may trigger refreshes
	RoleAdmin Role = "admin"
	// RoleMember signed-in student
	RoleMember Role = "member"
	// RoleGuest anonymous visitor
	RoleGuest Role = "guest"
)

// Viewer 目前請求的使用者
type Viewer struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	// MaxOrder is the viewer's belt rank cap, nil means no cap
	MaxOrder *int `json:"max_order,omitempty"`
}

// Guest anonymous viewer
func Guest() Viewer {
	return Viewer{Role: RoleGuest}
}

// Anonymous reports whether the viewer has no identity
func (v Viewer) Anonymous() bool {
	return v.ID == ""
}

// LevelBound returns the curriculum cap applied to this viewer's queries.
// Admins are never capped.
func (v Viewer) LevelBound() *int {
	if v.Role == RoleAdmin || v.MaxOrder == nil {
		return nil
	}
	bound := *v.MaxOrder
	return &bound
}
