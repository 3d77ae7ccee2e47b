package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
	"github.com/devnazarchuk/depity-hr-sub000/internal/storage"
)

// Manager owns the session lifecycle: it issues, renews and expires
// sessions and runs the one-second tick while a session is active.
// All methods are safe for the single-caller model the dashboard uses;
// the mutex exists because the tick goroutine shares the state.
type Manager struct {
	mu sync.Mutex

	creds  CredentialRepository
	users  UserDirectory
	tokens TokenGenerator
	store  storage.Store
	logger *slog.Logger

	settings Settings
	session  *Session

	clock  func() time.Time
	cancel context.CancelFunc
}

// NewManager loads persisted settings (corrupt or missing blobs fall
// back to defaults) and restores a previously persisted session if its
// token is still valid. It never fails startup: a bad session blob is
// discarded and the manager starts unauthenticated.
func NewManager(creds CredentialRepository, users UserDirectory, tokens TokenGenerator, store storage.Store, logger *slog.Logger) *Manager {
	m := &Manager{
		creds:    creds,
		users:    users,
		tokens:   tokens,
		store:    store,
		logger:   logger,
		settings: DefaultSettings(),
		clock:    time.Now,
	}
	m.loadSettings()
	m.restore()
	return m
}

// Login validates credentials and issues a fresh session. On any
// failure the manager stays unauthenticated and no partial session is
// created.
func (m *Manager) Login(email, password string) error {
	storedHash, _, err := m.creds.GetPasswordForEmail(email)
	if err != nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	actor, err := m.users.GetByEmail(email)
	if err != nil {
		return ErrInvalidCredentials
	}
	if !actor.IsActiveUser() {
		return ErrUserInactive
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.issueLocked(*actor, m.settings.SessionTimeoutMinutes); err != nil {
		m.session = nil
		return err
	}
	m.logger.Info("session issued", "user_id", actor.ID, "role", actor.Role,
		"timeout_minutes", m.settings.SessionTimeoutMinutes)
	return nil
}

// Logout unconditionally clears session state. Calling it repeatedly
// is safe.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// Extend re-issues the token and expiry using the current timeout
// setting. Only valid while a session exists.
func (m *Manager) Extend() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	return m.issueLocked(m.session.User, m.settings.SessionTimeoutMinutes)
}

// Touch records user activity on the session. It never moves the
// expiry: presence and renewal are deliberately decoupled, the session
// has a fixed lifetime unless explicitly extended or auto-refreshed.
func (m *Manager) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return
	}
	m.session.LastActivity = m.clock().UnixMilli()
	m.persistSessionLocked()
}

// Tick advances the lifecycle by one observation: expiry at zero time
// left, implicit renewal inside the auto-refresh window.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return
	}

	left := m.session.TimeLeft(m.clock())
	if left == 0 {
		m.logger.Info("session expired", "user_id", m.session.User.ID)
		m.clearLocked()
		return
	}
	if m.settings.AutoRefresh && left <= ExpiringWindow {
		if err := m.issueLocked(m.session.User, m.settings.SessionTimeoutMinutes); err != nil {
			m.logger.Error("auto refresh failed", "error", err)
			return
		}
		m.logger.Debug("session auto refreshed", "user_id", m.session.User.ID)
	}
}

// UpdateSettings merges the patch and persists the result. A timeout
// change while a session is active re-issues the session immediately
// with the new window, so no manual extend is needed afterwards.
func (m *Manager) UpdateSettings(patch SettingsPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	timeoutChanged := false
	if patch.SessionTimeoutMinutes != nil && *patch.SessionTimeoutMinutes > 0 &&
		*patch.SessionTimeoutMinutes != m.settings.SessionTimeoutMinutes {
		m.settings.SessionTimeoutMinutes = *patch.SessionTimeoutMinutes
		timeoutChanged = true
	}
	if patch.AutoRefresh != nil {
		m.settings.AutoRefresh = *patch.AutoRefresh
	}
	if patch.ShowSessionTimer != nil {
		m.settings.ShowSessionTimer = *patch.ShowSessionTimer
	}
	m.persistSettingsLocked()

	if timeoutChanged && m.session != nil {
		if err := m.issueLocked(m.session.User, m.settings.SessionTimeoutMinutes); err != nil {
			m.logger.Error("re-issue after timeout change failed", "error", err)
		}
	}
}

func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// CurrentUser returns a copy of the authenticated actor, or nil.
func (m *Manager) CurrentUser() *userDatamodel.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	actor := m.session.User
	return &actor
}

// SyncActor replaces the session's embedded actor snapshot. AppState
// calls this when the authenticated user edits their own record, so
// later authorization checks see the fresh role and department.
func (m *Manager) SyncActor(actor userDatamodel.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.User.ID != actor.ID {
		return
	}
	m.session.User = actor
	m.persistSessionLocked()
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil && !m.session.Expired(m.clock())
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return StateUnauthenticated
	}
	if m.session.Expired(m.clock()) {
		return StateExpired
	}
	return StateActive
}

// Expiring reports the informational sub-state: active with at most
// the refresh window remaining.
func (m *Manager) Expiring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return false
	}
	left := m.session.TimeLeft(m.clock())
	return left > 0 && left <= ExpiringWindow
}

// TimeLeft returns the live countdown, zero when unauthenticated.
func (m *Manager) TimeLeft() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return 0
	}
	return m.session.TimeLeft(m.clock())
}

// Snapshot returns a copy of the current session for read-side
// consumers (timer display).
func (m *Manager) Snapshot() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Start launches the one-second ticker goroutine. Stop (or cancelling
// ctx) ends it; the ticker must not outlive the owning context or it
// would act on a torn-down session.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Tick()
			}
		}
	}()
}

// Stop cancels the ticker. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Manager) issueLocked(actor userDatamodel.User, timeoutMinutes int) error {
	ttl := time.Duration(timeoutMinutes) * time.Minute
	accessToken, err := m.tokens.GenerateAccessToken(actor.ID, actor.Email, ttl)
	if err != nil {
		return err
	}
	refreshToken, err := m.tokens.GenerateRefreshToken(actor.ID, actor.Email)
	if err != nil {
		return err
	}

	now := m.clock()
	m.session = &Session{
		User:           actor,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		ExpiresAt:      now.Add(ttl).UnixMilli(),
		LastActivity:   now.UnixMilli(),
		TimeoutMinutes: timeoutMinutes,
	}
	m.persistSessionLocked()
	return nil
}

func (m *Manager) clearLocked() {
	m.session = nil
	if err := m.store.Delete(storage.KeySession); err != nil {
		m.logger.Warn("failed to clear persisted session", "error", err)
	}
}

func (m *Manager) persistSessionLocked() {
	blob, err := json.Marshal(m.session)
	if err != nil {
		m.logger.Warn("failed to marshal session", "error", err)
		return
	}
	if err := m.store.Write(storage.KeySession, blob); err != nil {
		m.logger.Warn("failed to persist session", "error", err)
	}
}

func (m *Manager) persistSettingsLocked() {
	blob, err := json.Marshal(m.settings)
	if err != nil {
		m.logger.Warn("failed to marshal session settings", "error", err)
		return
	}
	if err := m.store.Write(storage.KeySettings, blob); err != nil {
		m.logger.Warn("failed to persist session settings", "error", err)
	}
}

func (m *Manager) loadSettings() {
	blob, ok, err := m.store.Read(storage.KeySettings)
	if err != nil || !ok {
		return
	}
	var settings Settings
	if err := json.Unmarshal(blob, &settings); err != nil {
		m.logger.Warn("discarding corrupt session settings", "error", err)
		return
	}
	if settings.SessionTimeoutMinutes <= 0 {
		settings.SessionTimeoutMinutes = DefaultSettings().SessionTimeoutMinutes
	}
	m.settings = settings
}

// restore revives a persisted session. Malformed blobs and expired
// tokens are dropped silently: startup always succeeds.
func (m *Manager) restore() {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, ok, err := m.store.Read(storage.KeySession)
	if err != nil || !ok {
		return
	}

	var session Session
	if err := json.Unmarshal(blob, &session); err != nil {
		m.logger.Warn("discarding corrupt persisted session", "error", err)
		m.clearLocked()
		return
	}
	if session.Expired(m.clock()) {
		m.logger.Info("discarding expired persisted session", "user_id", session.User.ID)
		m.clearLocked()
		return
	}
	if _, err := m.tokens.ValidateToken(session.AccessToken); err != nil {
		m.logger.Warn("discarding persisted session with invalid token", "error", err)
		m.clearLocked()
		return
	}
	m.session = &session
}
