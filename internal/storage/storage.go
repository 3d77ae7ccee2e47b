// Package storage defines the key/value persistence contract the rest
// of the module is written against. Each key holds one JSON blob; a
// write replaces the whole value. There is no cross-key atomicity.
package storage

// Namespaced keys for every persisted collection and singleton.
const (
	KeySession     = "hr_dashboard:session"
	KeySettings    = "hr_dashboard:session_settings"
	KeyUsers       = "hr_dashboard:users"
	KeyDocuments   = "hr_dashboard:documents"
	KeyFolders     = "hr_dashboard:folders"
	KeyOnboarding  = "hr_dashboard:onboarding_tasks"
	KeyCredentials = "hr_dashboard:credentials"
)

type Store interface {
	// Read returns the stored value and whether the key exists.
	Read(key string) ([]byte, bool, error)
	// Write stores value under key, replacing any previous value.
	Write(key string, value []byte) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error
}
