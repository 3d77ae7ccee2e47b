package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	userDatamodel "github.com/devnazarchuk/depity-hr-sub000/internal/core/datamodel/user"
)

// State of the session lifecycle. Expiring is informational only — it
// is Active with less than a minute left, see Manager.Expiring.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateActive          State = "active"
	StateExpired         State = "expired"
)

// ExpiringWindow is the remaining-time threshold below which an Active
// session is reported as expiring and, with auto-refresh on, renewed.
const ExpiringWindow = time.Minute

// Session is the persisted authenticated context. ExpiresAt and
// LastActivity are absolute epoch milliseconds so the blob survives a
// restart intact.
type Session struct {
	User           userDatamodel.User `json:"user"`
	AccessToken    string             `json:"access_token"`
	RefreshToken   string             `json:"refresh_token"`
	ExpiresAt      int64              `json:"expires_at"`
	LastActivity   int64              `json:"last_activity"`
	TimeoutMinutes int                `json:"session_timeout_minutes"`
}

// TimeLeft returns the remaining lifetime, clamped at zero.
func (s *Session) TimeLeft(now time.Time) time.Duration {
	left := time.Duration(s.ExpiresAt-now.UnixMilli()) * time.Millisecond
	if left < 0 {
		return 0
	}
	return left
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt <= now.UnixMilli()
}

// Settings is process-wide session policy, persisted independently of
// any single session.
type Settings struct {
	SessionTimeoutMinutes int  `json:"session_timeout_minutes"`
	AutoRefresh           bool `json:"auto_refresh"`
	ShowSessionTimer      bool `json:"show_session_timer"`
}

func DefaultSettings() Settings {
	return Settings{
		SessionTimeoutMinutes: 30,
		AutoRefresh:           true,
		ShowSessionTimer:      true,
	}
}

// SettingsPatch is a partial settings update; nil fields are left
// untouched.
type SettingsPatch struct {
	SessionTimeoutMinutes *int
	AutoRefresh           *bool
	ShowSessionTimer      *bool
}

/// Claims is the token payload: identity plus an absolute expiry. The
// token is locally generated and locally verified; it is an expiry
// carrier, not a trust boundary.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string, ttl time.Duration) (string, error)
	GenerateRefreshToken(userID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// CredentialRepository resolves a stored password hash by email.
type CredentialRepository interface {
	GetPasswordForEmail(email string) (passwordHash string, userID string, err error)
}

// UserDirectory resolves the full actor record backing a session.
type UserDirectory interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id string) (*userDatamodel.User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoSession          = errors.New("no active session")
)
