// Package rbac holds the permission matrix and the per-role data
// scoping rules. Both are pure: they never touch storage and never
// cache a decision, so a role or department change is picked up on
// the next call.
package rbac

import (
	"sort"

	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
)

// Permission tokens. Opaque strings compared by exact match only; an
// unknown token is always denied.
const (
	PermUsersView    = "users_view"
	PermUsersManage  = "users_manage"
	PermUsersDelete  = "users_delete"
	PermDocsView     = "documents_view"
	PermDocsUpload   = "documents_upload"
	PermDocsManage   = "documents_manage"
	PermOnboardView  = "onboarding_view"
	PermOnboardEdit  = "onboarding_manage"
	PermMeetingsHost = "meetings_schedule"
	PermTimeOffAsk   = "timeoff_request"
	PermTimeOffGrant = "timeoff_approve"
	PermNotesManage  = "notes_manage"
	PermReportsView  = "reports_view"
	PermSettings     = "settings_manage"
)

// Catalog is the static role -> grant-set table. Grants are
// enumerated per role: admin's set happens to be a superset of every
// other role's, but nothing is inherited.
type Catalog struct {
	grants map[userDatamodel.Role]map[string]struct{}
}

func NewCatalog() *Catalog {
	table := map[userDatamodel.Role][]string{
		userDatamodel.RoleAdmin: {
			PermUsersView, PermUsersManage, PermUsersDelete,
			PermDocsView, PermDocsUpload, PermDocsManage,
			PermOnboardView, PermOnboardEdit,
			PermMeetingsHost,
			PermTimeOffAsk, PermTimeOffGrant,
			PermNotesManage,
			PermReportsView,
			PermSettings,
		},
		userDatamodel.RoleHR: {
			PermUsersView, PermUsersManage,
			PermDocsView, PermDocsUpload, PermDocsManage,
			PermOnboardView, PermOnboardEdit,
			PermMeetingsHost,
			PermTimeOffAsk, PermTimeOffGrant,
			PermNotesManage,
			PermReportsView,
		},
		userDatamodel.RoleManager: {
			PermUsersView,
			PermDocsView, PermDocsUpload,
			PermOnboardView, PermOnboardEdit,
			PermMeetingsHost,
			PermTimeOffAsk, PermTimeOffGrant,
			PermNotesManage,
			PermReportsView,
		},
		userDatamodel.RoleEmployee: {
			PermDocsView, PermDocsUpload,
			PermOnboardView,
			PermMeetingsHost,
			PermTimeOffAsk,
			PermNotesManage,
		},
	}

	grants := make(map[userDatamodel.Role]map[string]struct{}, len(table))
	for role, tokens := range table {
		set := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			set[token] = struct{}{}
		}
		grants[role] = set
	}
	return &Catalog{grants: grants}
}

// HasPermission reports whether role is granted token. Unknown roles
// and unknown tokens resolve to false, never an error.
func (c *Catalog) HasPermission(role userDatamodel.Role, token string) bool {
	set, ok := c.grants[role]
	if !ok {
		return false
	}
	_, granted := set[token]
	return granted
}

// Grants returns the sorted token set for a role. Unknown roles get
// an empty slice.
func (c *Catalog) Grants(role userDatamodel.Role) []string {
	set, ok := c.grants[role]
	if !ok {
		return nil
	}
	tokens := make([]string, 0, len(set))
	for token := range set {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
