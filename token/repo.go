package token

// StorageKey names the single slot that holds the raw bearer token.
const StorageKey = "efact_auth_token"

// Store holds at most one opaque bearer token for the lifetime of a session.
// Saving a token replaces the previous one; there is no history.
type Store interface {
	Save(token string)
	Get() (string, bool)
	Remove()
	Has() bool
}
