package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pulse-agent-service/internal/domain/session"
	xerrors "pulse-agent-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

var _ session.Store = (*SessionRepository)(nil)

// EnsureSchema creates the sessions table if it does not exist yet.
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS agent_sessions (
			app_name    TEXT NOT NULL,
			user_id     TEXT NOT NULL,
			id          TEXT NOT NULL,
			state       JSONB NOT NULL DEFAULT '{}'::jsonb,
			create_time TIMESTAMPTZ NOT NULL DEFAULT now(),
			update_time TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (app_name, user_id, id)
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure sessions schema: %w", err)
	}
	return nil
}

// Create inserts a session row with a freshly generated id.
func (r *SessionRepository) Create(ctx context.Context, appName, userID string, state map[string]interface{}) (*session.Session, error) {
	if state == nil {
		state = map[string]interface{}{}
	}
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session state: %w", err)
	}

	sess := &session.Session{
		AppName: appName,
		UserID:  userID,
		ID:      ulid.Make().String(),
		State:   state,
	}

	query := `
		INSERT INTO agent_sessions (app_name, user_id, id, state)
		VALUES ($1, $2, $3, $4)
		RETURNING create_time, update_time
	`
	err = r.db.QueryRow(ctx, query, appName, userID, sess.ID, stateJSON).
		Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Get fetches a session by its composite key.
func (r *SessionRepository) Get(ctx context.Context, appName, userID, id string) (*session.Session, error) {
	query := `
		SELECT app_name, user_id, id, state, create_time, update_time
		FROM agent_sessions
		WHERE app_name = $1 AND user_id = $2 AND id = $3
	`
	sess, err := scanSession(r.db.QueryRow(ctx, query, appName, userID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.Wrapf(xerrors.ErrNotFound, "session %s not found", id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// List returns every session under the app, newest first.
func (r *SessionRepository) List(ctx context.Context, appName string) ([]*session.Session, error) {
	query := `
		SELECT app_name, user_id, id, state, create_time, update_time
		FROM agent_sessions
		WHERE app_name = $1
		ORDER BY update_time DESC
	`
	rows, err := r.db.Query(ctx, query, appName)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// AppendEntry appends one history entry in a single statement, so concurrent
// appends to the same session never lose each other's writes. A missing row is
// created with just the entry, so an append racing a delete still lands.
func (r *SessionRepository) AppendEntry(ctx context.Context, appName, userID, id string, entry session.Entry) error {
	entry.EnsureTimestamp(time.Now())
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	query := `
		INSERT INTO agent_sessions (app_name, user_id, id, state)
		VALUES ($1, $2, $3, jsonb_build_object('interaction_history', jsonb_build_array($4::jsonb)))
		ON CONFLICT (app_name, user_id, id) DO UPDATE
		SET state = jsonb_set(
				agent_sessions.state,
				'{interaction_history}',
				COALESCE(agent_sessions.state->'interaction_history', '[]'::jsonb) || $4::jsonb
			),
			update_time = now()
	`
	if _, err := r.db.Exec(ctx, query, appName, userID, id, entryJSON); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// ClearState resets the session state to an empty object, keeping the row.
func (r *SessionRepository) ClearState(ctx context.Context, appName, userID, id string) error {
	query := `
		UPDATE agent_sessions
		SET state = '{}'::jsonb, update_time = now()
		WHERE app_name = $1 AND user_id = $2 AND id = $3
	`
	tag, err := r.db.Exec(ctx, query, appName, userID, id)
	if err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.Wrapf(xerrors.ErrNotFound, "session %s not found", id)
	}
	return nil
}

// Delete removes the session row.
func (r *SessionRepository) Delete(ctx context.Context, appName, userID, id string) error {
	query := `DELETE FROM agent_sessions WHERE app_name = $1 AND user_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, appName, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.Wrapf(xerrors.ErrNotFound, "session %s not found", id)
	}
	return nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var sess session.Session
	var stateJSON []byte
	err := row.Scan(&sess.AppName, &sess.UserID, &sess.ID, &stateJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stateJSON, &sess.State); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return &sess, nil
}
