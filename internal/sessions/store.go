package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pedidoz-backend/internal/conversation"
	pkgerrors "github.com/angelmondragon/pedidoz-backend/pkg/errors"
	redispkg "github.com/angelmondragon/pedidoz-backend/pkg/redis"
)

// kvStore is the slice of the redis client the session store depends on.
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SessionKey(waID string) string
	AcquireTurnLease(ctx context.Context, waID, token string, ttl time.Duration) (bool, error)
	ReleaseTurnLease(ctx context.Context, waID, token string) error
}

// Store persists conversation sessions in redis, one key per wa_id.
type Store struct {
	kv       kvStore
	ttl      time.Duration
	leaseTTL time.Duration
}

// StoreParams wires the store's dependencies.
type StoreParams struct {
	KV         kvStore
	SessionTTL time.Duration
	LeaseTTL   time.Duration
}

// NewStore builds a session store.
func NewStore(params StoreParams) (*Store, error) {
	if params.KV == nil {
		return nil, fmt.Errorf("kv store required")
	}
	ttl := params.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	leaseTTL := params.LeaseTTL
	if leaseTTL <= 0 {
		leaseTTL = 30 * time.Second
	}
	return &Store{kv: params.KV, ttl: ttl, leaseTTL: leaseTTL}, nil
}

// Get loads the user's session. A missing key yields a fresh idle session;
// an unreadable or invalid payload is session corruption.
func (s *Store) Get(ctx context.Context, waID string) (*conversation.Session, error) {
	raw, err := s.kv.Get(ctx, s.kv.SessionKey(waID))
	if err != nil {
		if errors.Is(err, redispkg.ErrSessionMiss) {
			return conversation.NewIdleSession(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}

	var session conversation.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "decoding session")
	}
	if err := session.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "validating session")
	}
	return &session, nil
}

// Set persists the session with the configured TTL, refreshing it on every
// turn so active conversations never expire mid-order.
func (s *Store) Set(ctx context.Context, waID string, session *conversation.Session) error {
	if session == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session is required")
	}
	if err := session.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refusing to persist invalid session")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding session")
	}
	if err := s.kv.Set(ctx, s.kv.SessionKey(waID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}
	return nil
}

// Clear removes the user's session entirely.
func (s *Store) Clear(ctx context.Context, waID string) error {
	if err := s.kv.Del(ctx, s.kv.SessionKey(waID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing session")
	}
	return nil
}

// Acquire takes the per-user turn lease and returns the token needed to
// release it. ok=false means another turn for this user is in flight.
func (s *Store) Acquire(ctx context.Context, waID string) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = s.kv.AcquireTurnLease(ctx, waID, token, s.leaseTTL)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring turn lease")
	}
	return token, ok, nil
}

// Release frees the per-user turn lease.
func (s *Store) Release(ctx context.Context, waID, token string) error {
	if err := s.kv.ReleaseTurnLease(ctx, waID, token); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "releasing turn lease")
	}
	return nil
}
