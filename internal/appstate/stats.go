package appstate

import (
	"time"

	onboardingDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/onboarding"
	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
)

// DashboardStats is the read-side projection shown on the landing
// page. It is computed from the scoped collections only, so counts can
// never leak records the role would not otherwise see.
type DashboardStats struct {
	TotalUsers    int                        `json:"total_users"`
	ActiveUsers   int                        `json:"active_users"`
	InactiveUsers int                        `json:"inactive_users"`
	PendingUsers  int                        `json:"pending_users"`
	NewThisWeek   int                        `json:"new_this_week"`
	ByRole        map[userDatamodel.Role]int `json:"by_role"`

	Documents        int `json:"documents"`
	StarredDocuments int `json:"starred_documents"`

	OnboardingOpen int `json:"onboarding_open"`
	OnboardingDone int `json:"onboarding_done"`
}

func (s *State) Stats() DashboardStats {
	stats := DashboardStats{ByRole: make(map[userDatamodel.Role]int)}

	weekAgo := time.Now().AddDate(0, 0, -7)
	for _, u := range s.ListUsers() {
		stats.TotalUsers++
		stats.ByRole[u.Role]++
		switch u.Status {
		case userDatamodel.StatusActive:
			stats.ActiveUsers++
		case userDatamodel.StatusInactive:
			stats.InactiveUsers++
		case userDatamodel.StatusPending:
			stats.PendingUsers++
		}
		if u.JoinedAt.After(weekAgo) {
			stats.NewThisWeek++
		}
	}

	for _, d := range s.ListDocuments() {
		stats.Documents++
		if d.Starred {
			stats.StarredDocuments++
		}
	}

	for _, t := range s.ListOnboardingTasks() {
		if t.Status == onboardingDatamodel.StatusCompleted {
			stats.OnboardingDone++
		} else {
			stats.OnboardingOpen++
		}
	}

	return stats
}
