package session

import "context"

// Store persists sessions. Implementations that cannot remove rows natively
// return an error matching xerrors.ErrUnsupported from Delete; callers then
// fall back to ClearState, which every implementation must support.
type Store interface {
	// Create inserts a session with a generated id and the given state.
	Create(ctx context.Context, appName, userID string, state map[string]interface{}) (*Session, error)
	// Get fetches a session by its composite key.
	Get(ctx context.Context, appName, userID, id string) (*Session, error)
	// List returns every session under the app, across all users.
	List(ctx context.Context, appName string) ([]*Session, error)
	// AppendEntry atomically appends one history entry to the session state.
	// A missing session is created with just the entry.
	AppendEntry(ctx context.Context, appName, userID, id string, entry Entry) error
	// ClearState resets the session state to an empty object.
	ClearState(ctx context.Context, appName, userID, id string) error
	// Delete removes the session row.
	Delete(ctx context.Context, appName, userID, id string) error
}
