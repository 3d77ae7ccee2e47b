// Package appstate is the central application state: it composes the
// permission catalog, the scope resolver and the session manager over
// the persisted collections. Every scoped read and every mutation goes
// through the same gate: authenticated actor, permission token where
// the action is gated, scope filter on the way out.
package appstate

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/devnazarchuk/depity-hr-sub000/internal"
	"github.com/devnazarchuk/depity-hr-sub000/internal/auth"
	documentDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/document"
	onboardingDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/onboarding"
	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
	"github.com/devnazarchuk/depity-hr-sub000/internal/rbac"
	"github.com/devnazarchuk/depity-hr-sub000/internal/storage"
)

type State struct {
	catalog  *rbac.Catalog
	scope    *rbac.Resolver
	sessions *auth.Manager
	creds    *auth.StoreCredentials
	store    storage.Store
	logger   *slog.Logger

	users     []userDatamodel.User
	documents []documentDatamodel.Document
	folders   []documentDatamodel.Folder
	tasks     []onboardingDatamodel.Task
}

// New loads every collection from the store. Corrupt blobs degrade to
// empty collections with a warning; construction never fails.
func New(catalog *rbac.Catalog, scope *rbac.Resolver, sessions *auth.Manager, creds *auth.StoreCredentials, store storage.Store, logger *slog.Logger) *State {
	s := &State{
		catalog:  catalog,
		scope:    scope,
		sessions: sessions,
		creds:    creds,
		store:    store,
		logger:   logger,
	}
	s.loadCollection(storage.KeyUsers, &s.users)
	s.loadCollection(storage.KeyDocuments, &s.documents)
	s.loadCollection(storage.KeyFolders, &s.folders)
	s.loadCollection(storage.KeyOnboarding, &s.tasks)
	return s
}

func (s *State) Sessions() *auth.Manager {
	return s.sessions
}

func (s *State) actor() *userDatamodel.User {
	if !s.sessions.IsAuthenticated() {
		return nil
	}
	return s.sessions.CurrentUser()
}

func (s *State) allowed(actor *userDatamodel.User, token string) bool {
	return actor != nil && s.catalog.HasPermission(actor.Role, token)
}

// ---- users ----

// ListUsers returns the users visible to the current actor. Employees
// see only themselves, managers their department, admin/hr everyone.
func (s *State) ListUsers() []userDatamodel.User {
	return s.scope.VisibleUsers(s.actor(), s.users)
}

type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       userDatamodel.Role
	Status     userDatamodel.Status
	Department string
	Phone      string
	Location   string
	Bio        string
}

func (s *State) CreateUser(input CreateUserInput) (*userDatamodel.User, error) {
	actor := s.actor()
	if actor == nil {
		return nil, internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if !s.allowed(actor, rbac.PermUsersManage) {
		return nil, internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot manage users")
	}
	if input.Name == "" || input.Email == "" {
		return nil, internal.NewValidationError("name and email are required")
	}
	if !input.Role.Valid() {
		return nil, internal.NewValidationError("unknown role")
	}
	if input.Status == "" {
		input.Status = userDatamodel.StatusPending
	}
	if !input.Status.Valid() {
		return nil, internal.NewValidationError("unknown status")
	}
	for i := range s.users {
		if s.users[i].Email == input.Email {
			return nil, internal.NewValidationError("email already registered")
		}
	}

	now := time.Now()
	created := userDatamodel.User{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Status:     input.Status,
		Department: input.Department,
		Phone:      input.Phone,
		Location:   input.Location,
		Bio:        input.Bio,
		JoinedAt:   now,
		UpdatedAt:  now,
	}
	s.users = append(s.users, created)
	s.persistCollection(storage.KeyUsers, s.users)

	if input.Password != "" {
		if err := s.creds.Set(created.Email, input.Password, created.ID); err != nil {
			s.logger.Warn("failed to store credentials for new user", "user_id", created.ID, "error", err)
		}
	}

	s.logger.Info("user created", "user_id", created.ID, "role", created.Role, "by", actor.ID)
	return &created, nil
}

type UpdateUserInput struct {
	Name       *string
	Phone      *string
	Location   *string
	Bio        *string
	Role       *userDatamodel.Role
	Status     *userDatamodel.Status
	Department *string
}

// UpdateUser applies the patch to the target user. Self-edits are
// allowed for profile fields without the manage grant; role, status
// and department changes always require it. When the authenticated
// actor edits their own record the session's embedded snapshot is
// synced, so authorization immediately follows the new state.
func (s *State) UpdateUser(id string, patch UpdateUserInput) (*userDatamodel.User, error) {
	actor := s.actor()
	if actor == nil {
		return nil, internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}

	manage := s.allowed(actor, rbac.PermUsersManage)
	selfEdit := actor.ID == id
	if !manage && !selfEdit {
		return nil, internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot edit this user")
	}

	idx := -1
	for i := range s.users {
		if s.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, internal.NewNotFoundError(internal.ErrCodeUserNotFound, "user not found")
	}
	if manage && !s.scope.CanEditUser(actor, &s.users[idx]) {
		return nil, internal.NewForbiddenError(internal.ErrCodeOutOfScope, "user outside your scope")
	}

	// build the updated record on a copy so a refused patch leaves the
	// collection untouched
	updated := s.users[idx]
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Phone != nil {
		updated.Phone = *patch.Phone
	}
	if patch.Location != nil {
		updated.Location = *patch.Location
	}
	if patch.Bio != nil {
		updated.Bio = *patch.Bio
	}
	if patch.Role != nil || patch.Status != nil || patch.Department != nil {
		if !manage {
			return nil, internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot change role, status or department")
		}
		if patch.Role != nil {
			if !patch.Role.Valid() {
				return nil, internal.NewValidationError("unknown role")
			}
			updated.Role = *patch.Role
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return nil, internal.NewValidationError("unknown status")
			}
			updated.Status = *patch.Status
		}
		if patch.Department != nil {
			updated.Department = *patch.Department
		}
	}
	updated.UpdatedAt = time.Now()
	s.users[idx] = updated
	s.persistCollection(storage.KeyUsers, s.users)

	if updated.ID == actor.ID {
		s.sessions.SyncActor(updated)
	}

	return &updated, nil
}

func (s *State) DeleteUser(id string) error {
	actor := s.actor()
	if actor == nil {
		return internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if !s.allowed(actor, rbac.PermUsersDelete) {
		return internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot delete users")
	}

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		email := s.users[i].Email
		s.users = append(s.users[:i], s.users[i+1:]...)
		s.persistCollection(storage.KeyUsers, s.users)
		if err := s.creds.Remove(email); err != nil {
			s.logger.Warn("failed to remove credentials", "user_id", id, "error", err)
		}
		s.logger.Info("user deleted", "user_id", id, "by", actor.ID)
		return nil
	}
	return internal.NewNotFoundError(internal.ErrCodeUserNotFound, "user not found")
}

// ---- documents ----

func (s *State) ListDocuments() []documentDatamodel.Document {
	return s.scope.VisibleDocuments(s.actor(), s.users, s.documents)
}

func (s *State) ListFolders() []documentDatamodel.Folder {
	if s.actor() == nil {
		return []documentDatamodel.Folder{}
	}
	out := make([]documentDatamodel.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

type AddDocumentInput struct {
	Name      string
	Type      string
	SizeBytes int64
	FolderID  string
}

func (s *State) AddDocument(input AddDocumentInput) (*documentDatamodel.Document, error) {
	actor := s.actor()
	if actor == nil {
		return nil, internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if !s.allowed(actor, rbac.PermDocsUpload) {
		return nil, internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot upload documents")
	}
	if input.Name == "" {
		return nil, internal.NewValidationError("document name is required")
	}
	if input.FolderID != "" && s.findFolder(input.FolderID) < 0 {
		return nil, internal.NewNotFoundError(internal.ErrCodeFolderNotFound, "folder not found")
	}

	doc := documentDatamodel.Document{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Type:       input.Type,
		SizeBytes:  input.SizeBytes,
		FolderID:   input.FolderID,
		UploadedBy: actor.Name,
		UploadedAt: time.Now(),
	}
	s.documents = append(s.documents, doc)
	s.persistCollection(storage.KeyDocuments, s.documents)

	// folder count is a second, best-effort write; the two keys are not
	// updated atomically
	if input.FolderID != "" {
		s.adjustFolderCount(input.FolderID, 1)
	}
	return &doc, nil
}

func (s *State) DeleteDocument(id string) error {
	actor := s.actor()
	if actor == nil {
		return internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}

	for i := range s.documents {
		if s.documents[i].ID != id {
			continue
		}
		doc := &s.documents[i]
		if !s.scope.CanAccessDocument(actor, s.users, doc) {
			return internal.NewForbiddenError(internal.ErrCodeOutOfScope, "document outside your scope")
		}
		if !s.allowed(actor, rbac.PermDocsManage) && doc.UploadedBy != actor.Name {
			return internal.NewForbiddenError(internal.ErrCodePermissionDenied, "can only delete own uploads")
		}
		folderID := doc.FolderID
		s.documents = append(s.documents[:i], s.documents[i+1:]...)
		s.persistCollection(storage.KeyDocuments, s.documents)
		if folderID != "" {
			s.adjustFolderCount(folderID, -1)
		}
		return nil
	}
	return internal.NewNotFoundError(internal.ErrCodeDocumentNotFound, "document not found")
}

func (s *State) MoveDocument(id, folderID string) error {
	actor := s.actor()
	if actor == nil {
		return internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if folderID != "" && s.findFolder(folderID) < 0 {
		return internal.NewNotFoundError(internal.ErrCodeFolderNotFound, "folder not found")
	}

	for i := range s.documents {
		if s.documents[i].ID != id {
			continue
		}
		doc := &s.documents[i]
		if !s.scope.CanAccessDocument(actor, s.users, doc) {
			return internal.NewForbiddenError(internal.ErrCodeOutOfScope, "document outside your scope")
		}
		if !s.allowed(actor, rbac.PermDocsManage) && doc.UploadedBy != actor.Name {
			return internal.NewForbiddenError(internal.ErrCodePermissionDenied, "can only move own uploads")
		}
		previous := doc.FolderID
		doc.FolderID = folderID
		s.persistCollection(storage.KeyDocuments, s.documents)
		if previous != "" {
			s.adjustFolderCount(previous, -1)
		}
		if folderID != "" {
			s.adjustFolderCount(folderID, 1)
		}
		return nil
	}
	return internal.NewNotFoundError(internal.ErrCodeDocumentNotFound, "document not found")
}

func (s *State) ToggleStar(id string) error {
	actor := s.actor()
	if actor == nil {
		return internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	for i := range s.documents {
		if s.documents[i].ID != id {
			continue
		}
		if !s.scope.CanAccessDocument(actor, s.users, &s.documents[i]) {
			return internal.NewForbiddenError(internal.ErrCodeOutOfScope, "document outside your scope")
		}
		s.documents[i].Starred = !s.documents[i].Starred
		s.persistCollection(storage.KeyDocuments, s.documents)
		return nil
	}
	return internal.NewNotFoundError(internal.ErrCodeDocumentNotFound, "document not found")
}

func (s *State) CreateFolder(name string) (*documentDatamodel.Folder, error) {
	actor := s.actor()
	if actor == nil {
		return nil, internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if !s.allowed(actor, rbac.PermDocsManage) {
		return nil, internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot manage folders")
	}
	if name == "" {
		return nil, internal.NewValidationError("folder name is required")
	}

	folder := documentDatamodel.Folder{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	s.folders = append(s.folders, folder)
	s.persistCollection(storage.KeyFolders, s.folders)
	return &folder, nil
}

func (s *State) DeleteFolder(id string) error {
	actor := s.actor()
	if actor == nil {
		return internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if !s.allowed(actor, rbac.PermDocsManage) {
		return internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot manage folders")
	}

	idx := s.findFolder(id)
	if idx < 0 {
		return internal.NewNotFoundError(internal.ErrCodeFolderNotFound, "folder not found")
	}
	s.folders = append(s.folders[:idx], s.folders[idx+1:]...)
	s.persistCollection(storage.KeyFolders, s.folders)

	// orphaned documents drop back to the root; separate write
	changed := false
	for i := range s.documents {
		if s.documents[i].FolderID == id {
			s.documents[i].FolderID = ""
			changed = true
		}
	}
	if changed {
		s.persistCollection(storage.KeyDocuments, s.documents)
	}
	return nil
}

// ---- onboarding ----

func (s *State) ListOnboardingTasks() []onboardingDatamodel.Task {
	return s.scope.VisibleOnboarding(s.actor(), s.users, s.tasks)
}

type CreateTaskInput struct {
	UserID  string
	Title   string
	DueDate time.Time
}

func (s *State) CreateOnboardingTask(input CreateTaskInput) (*onboardingDatamodel.Task, error) {
	actor := s.actor()
	if actor == nil {
		return nil, internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if !s.allowed(actor, rbac.PermOnboardEdit) {
		return nil, internal.NewForbiddenError(internal.ErrCodePermissionDenied, "cannot manage onboarding")
	}
	if input.Title == "" || input.UserID == "" {
		return nil, internal.NewValidationError("task title and user are required")
	}
	known := false
	for i := range s.users {
		if s.users[i].ID == input.UserID {
			known = true
			break
		}
	}
	if !known {
		return nil, internal.NewNotFoundError(internal.ErrCodeUserNotFound, "target user not found")
	}

	probe := onboardingDatamodel.Task{UserID: input.UserID}
	if !s.scope.CanAccessOnboarding(actor, s.users, &probe) {
		return nil, internal.NewForbiddenError(internal.ErrCodeOutOfScope, "target user outside your scope")
	}

	now := time.Now()
	task := onboardingDatamodel.Task{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		Title:     input.Title,
		Status:    onboardingDatamodel.StatusNotStarted,
		DueDate:   input.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.tasks = append(s.tasks, task)
	s.persistCollection(storage.KeyOnboarding, s.tasks)
	return &task, nil
}

// UpdateTaskStatus lets onboarding managers drive any in-scope task
// and lets an employee progress their own checklist.
func (s *State) UpdateTaskStatus(id string, status onboardingDatamodel.TaskStatus, progress int) error {
	actor := s.actor()
	if actor == nil {
		return internal.NewAuthenticationError(internal.ErrCodeNotAuthenticated, "login required")
	}
	if !status.Valid() {
		return internal.NewValidationError("unknown task status")
	}
	if progress < 0 || progress > 100 {
		return internal.NewValidationError("progress must be between 0 and 100")
	}

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		task := &s.tasks[i]
		if !s.scope.CanAccessOnboarding(actor, s.users, task) {
			return internal.NewForbiddenError(internal.ErrCodeOutOfScope, "task outside your scope")
		}
		if !s.allowed(actor, rbac.PermOnboardEdit) && task.UserID != actor.ID {
			return internal.NewForbiddenError(internal.ErrCodePermissionDenied, "can only update own tasks")
		}
		task.Status = status
		task.Progress = progress
		task.UpdatedAt = time.Now()
		s.persistCollection(storage.KeyOnboarding, s.tasks)
		return nil
	}
	return internal.NewNotFoundError(internal.ErrCodeTaskNotFound, "task not found")
}

// ---- plumbing ----

func (s *State) findFolder(id string) int {
	for i := range s.folders {
		if s.folders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) adjustFolderCount(id string, delta int) {
	idx := s.findFolder(id)
	if idx < 0 {
		return
	}
	s.folders[idx].DocumentCount += delta
	if s.folders[idx].DocumentCount < 0 {
		s.folders[idx].DocumentCount = 0
	}
	s.persistCollection(storage.KeyFolders, s.folders)
}

func (s *State) loadCollection(key string, target any) {
	blob, ok, err := s.store.Read(key)
	if err != nil {
		s.logger.Warn("failed to read collection", "key", key, "error", err)
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(blob, target); err != nil {
		s.logger.Warn("discarding corrupt collection", "key", key, "error", err)
	}
}

func (s *State) persistCollection(key string, value any) {
	blob, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to marshal collection", "key", key, "error", err)
		return
	}
	if err := s.store.Write(key, blob); err != nil {
		s.logger.Warn("failed to persist collection", "key", key, "error", err)
	}
}
