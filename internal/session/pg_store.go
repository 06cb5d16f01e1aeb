package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	boterrors "github.com/savastore/whatsbot/internal/errors"
)

// PgStore keeps sessions in PostgreSQL so they survive restarts. Per-caller
// serialization uses an advisory lock on the hashed caller id; the connection
// holding the lock is pinned between GetOrCreate and Commit/Abort.
type PgStore struct {
	db  *pgxpool.Pool
	ttl time.Duration

	mu   sync.Mutex
	held map[string]*pgxpool.Conn
}

var _ Store = (*PgStore)(nil)

func NewPgStore(db *pgxpool.Pool, ttl time.Duration) *PgStore {
	return &PgStore{
		db:   db,
		ttl:  ttl,
		held: make(map[string]*pgxpool.Conn),
	}
}

// GetOrCreate takes the caller's advisory lock and loads the stored session.
// A missing or expired row yields a fresh session.
func (p *PgStore) GetOrCreate(ctx context.Context, callerID string) (Session, error) {
	conn, err := p.db.Acquire(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to acquire connection: %w", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1)::bigint)`, callerID); err != nil {
		conn.Release()
		return Session{}, fmt.Errorf("failed to take session lock: %w", err)
	}

	var (
		stage     string
		cart      []string
		pending   string
		updatedAt time.Time
	)
	row := conn.QueryRow(ctx,
		`SELECT stage, cart, pending_product, updated_at FROM sessions WHERE caller_id = $1`, callerID)
	err = row.Scan(&stage, &cart, &pending, &updatedAt)

	s := New()
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first contact
	case err != nil:
		p.unlock(ctx, conn, callerID)
		conn.Release()
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	case p.ttl > 0 && time.Since(updatedAt) > p.ttl:
		// expired row, start over
	default:
		s = Session{Stage: Stage(stage), Cart: cart, PendingProduct: pending}
	}

	p.mu.Lock()
	p.held[callerID] = conn
	p.mu.Unlock()
	return s.Clone(), nil
}

// Commit upserts the session row and releases the caller's lock.
func (p *PgStore) Commit(ctx context.Context, callerID string, s Session) error {
	conn, err := p.take(callerID)
	if err != nil {
		return err
	}
	defer conn.Release()
	defer p.unlock(ctx, conn, callerID)

	// A nil slice would encode as SQL NULL and violate the NOT NULL column.
	cart := s.Cart
	if cart == nil {
		cart = []string{}
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO sessions (caller_id, stage, cart, pending_product, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (caller_id) DO UPDATE
		SET stage = EXCLUDED.stage,
		    cart = EXCLUDED.cart,
		    pending_product = EXCLUDED.pending_product,
		    updated_at = now()`,
		callerID, string(s.Stage), cart, s.PendingProduct)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Abort releases the caller's lock without writing.
func (p *PgStore) Abort(ctx context.Context, callerID string) error {
	conn, err := p.take(callerID)
	if err != nil {
		return err
	}
	p.unlock(ctx, conn, callerID)
	conn.Release()
	return nil
}

// take removes and returns the pinned connection for the caller.
func (p *PgStore) take(callerID string) (*pgxpool.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	conn, ok := p.held[callerID]
	if !ok {
		return nil, boterrors.ErrSessionNotFound
	}
	delete(p.held, callerID)
	return conn, nil
}

func (p *PgStore) unlock(ctx context.Context, conn *pgxpool.Conn, callerID string) {
	_, _ = conn.Exec(ctx, `SELECT pg_advisory_unlock(hashtext($1)::bigint)`, callerID)
}
