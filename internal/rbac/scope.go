package rbac

import (
	documentDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/document"
	onboardingDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/onboarding"
	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
)

// Resolver filters domain collections down to what an actor may see.
// Department string equality is the only grouping primitive; there is
// no reporting-line graph. Every query takes the full user set so peer
// membership is recomputed per call.
//
// The collection filters are implemented on top of the point queries,
// so a record appears in a scoped list exactly when the corresponding
// point query allows it.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// CanEditUser reports whether actor may see and edit target. A nil
// actor is always denied.
func (r *Resolver) CanEditUser(actor *userDatamodel.User, target *userDatamodel.User) bool {
	if actor == nil || target == nil {
		return false
	}
	switch actor.Role {
	case userDatamodel.RoleAdmin, userDatamodel.RoleHR:
		return true
	case userDatamodel.RoleManager:
		return target.Department == actor.Department
	case userDatamodel.RoleEmployee:
		return target.ID == actor.ID
	}
	return false
}

// VisibleUsers returns the subset of all that actor may see.
func (r *Resolver) VisibleUsers(actor *userDatamodel.User, all []userDatamodel.User) []userDatamodel.User {
	if actor == nil {
		return []userDatamodel.User{}
	}
	visible := make([]userDatamodel.User, 0, len(all))
	for i := range all {
		if r.CanEditUser(actor, &all[i]) {
			visible = append(visible, all[i])
		}
	}
	return visible
}

// CanAccessDocument reports whether actor may see doc. Manager access
// follows uploader names within the actor's department; employees see
// their own uploads and the shared assigned bucket.
func (r *Resolver) CanAccessDocument(actor *userDatamodel.User, all []userDatamodel.User, doc *documentDatamodel.Document) bool {
	if actor == nil || doc == nil {
		return false
	}
	switch actor.Role {
	case userDatamodel.RoleAdmin, userDatamodel.RoleHR:
		return true
	case userDatamodel.RoleManager:
		if doc.UploadedBy == actor.Name {
			return true
		}
		return r.peerNames(actor, all)[doc.UploadedBy]
	case userDatamodel.RoleEmployee:
		return doc.UploadedBy == actor.Name || doc.UploadedBy == documentDatamodel.AssignedBucket
	}
	return false
}

func (r *Resolver) VisibleDocuments(actor *userDatamodel.User, all []userDatamodel.User, docs []documentDatamodel.Document) []documentDatamodel.Document {
	if actor == nil {
		return []documentDatamodel.Document{}
	}
	visible := make([]documentDatamodel.Document, 0, len(docs))
	for i := range docs {
		if r.CanAccessDocument(actor, all, &docs[i]) {
			visible = append(visible, docs[i])
		}
	}
	return visible
}

// CanAccessOnboarding reports whether actor may see task, keyed by the
// task's user id.
func (r *Resolver) CanAccessOnboarding(actor *userDatamodel.User, all []userDatamodel.User, task *onboardingDatamodel.Task) bool {
	if actor == nil || task == nil {
		return false
	}
	switch actor.Role {
	case userDatamodel.RoleAdmin, userDatamodel.RoleHR:
		return true
	case userDatamodel.RoleManager:
		if task.UserID == actor.ID {
			return true
		}
		return r.peerIDs(actor, all)[task.UserID]
	case userDatamodel.RoleEmployee:
		return task.UserID == actor.ID
	}
	return false
}

func (r *Resolver) VisibleOnboarding(actor *userDatamodel.User, all []userDatamodel.User, tasks []onboardingDatamodel.Task) []onboardingDatamodel.Task {
	if actor == nil {
		return []onboardingDatamodel.Task{}
	}
	visible := make([]onboardingDatamodel.Task, 0, len(tasks))
	for i := range tasks {
		if r.CanAccessOnboarding(actor, all, &tasks[i]) {
			visible = append(visible, tasks[i])
		}
	}
	return visible
}

func (r *Resolver) peerNames(actor *userDatamodel.User, all []userDatamodel.User) map[string]bool {
	peers := make(map[string]bool, len(all))
	for i := range all {
		if all[i].Department == actor.Department {
			peers[all[i].Name] = true
		}
	}
	return peers
}

func (r *Resolver) peerIDs(actor *userDatamodel.User, all []userDatamodel.User) map[string]bool {
	peers := make(map[string]bool, len(all))
	for i := range all {
		if all[i].Department == actor.Department {
			peers[all[i].ID] = true
		}
	}
	return peers
}
