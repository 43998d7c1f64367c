package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-clearkey/internal/crypto"
	"github.com/deploymenttheory/go-clearkey/internal/interfaces"
	"github.com/deploymenttheory/go-clearkey/internal/parsers/jwk"
	"github.com/deploymenttheory/go-clearkey/internal/parsers/pssh"
	"github.com/deploymenttheory/go-clearkey/internal/parsers/request"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// Session resolves and holds the keys for one ClearKey decryption session:
// init data -> license request -> license response -> keys -> sample decryption.
//
// Key storage is safe for concurrent use, but callers must serialize Decrypt calls
// that share an IV buffer.
type Session struct {
	id          uuid.UUID
	sessionType types.SessionType
	createdAt   time.Time
	keyIDs      []types.KeyID
	store       interfaces.KeyStore
	fetcher     interfaces.LicenseFetcher
	log         interfaces.Logger
}

// Ensure interface compliance
var _ interfaces.SessionReader = (*Session)(nil)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the diagnostics sink handed to the parsers.
func WithLogger(log interfaces.Logger) SessionOption {
	return func(s *Session) {
		s.log = interfaces.OrNop(log)
	}
}

// WithLicenseFetcher sets the license server used by Resolve.
func WithLicenseFetcher(fetcher interfaces.LicenseFetcher) SessionOption {
	return func(s *Session) {
		s.fetcher = fetcher
	}
}

// NewSession creates a session backed by store. Only temporary sessions are supported.
func NewSession(sessionType types.SessionType, store interfaces.KeyStore, opts ...SessionOption) (*Session, error) {
	if sessionType != types.SessionTypeTemporary {
		return nil, fmt.Errorf("%w: unsupported session type %q", types.ErrInvalid, sessionType)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: key store is nil", types.ErrPrecondition)
	}

	s := &Session{
		id:          uuid.New(),
		sessionType: sessionType,
		createdAt:   time.Now(),
		store:       store,
		log:         interfaces.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Type returns the session type.
func (s *Session) Type() types.SessionType {
	return s.sessionType
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// KeyIDs returns a copy of the key IDs extracted by the last GenerateRequest.
func (s *Session) KeyIDs() []types.KeyID {
	ids := make([]types.KeyID, len(s.keyIDs))
	copy(ids, s.keyIDs)
	return ids
}

// HasKey reports whether a key is held for id.
func (s *Session) HasKey(id types.KeyID) bool {
	_, ok := s.store.Get(id)
	return ok
}

// GenerateRequest extracts the key IDs from initData and returns the license request for them.
// Key IDs found before an aborting box are still requested.
func (s *Session) GenerateRequest(initData []byte) ([]byte, error) {
	ids, err := pssh.ParseInitData(initData, s.log)
	if err != nil {
		if len(ids) == 0 {
			return nil, fmt.Errorf("failed to parse init data: %w", err)
		}
		s.log.Logf("init data parse stopped early, requesting %d key IDs: %v", len(ids), err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: init data carries no ClearKey key IDs", types.ErrInvalid)
	}

	req, err := request.BuildKeyRequest(ids)
	if err != nil {
		return nil, err
	}

	s.keyIDs = ids
	return []byte(req), nil
}

// Update parses a license response and stores its keys. It returns the number of keys stored.
func (s *Session) Update(response []byte) (int, error) {
	pairs, err := jwk.ParseKeySet(response, s.log)
	if err != nil {
		return 0, fmt.Errorf("failed to parse license response: %w", err)
	}

	stored := 0
	for _, pair := range pairs {
		id, ok := pair.ID()
		if !ok {
			s.log.Logf("ignoring key with %d byte key ID", len(pair.KeyID))
			continue
		}
		s.store.Put(id, pair.Key)
		stored++
	}

	s.log.Logf("session %s: stored %d of %d keys", s.ID(), stored, len(pairs))
	return stored, nil
}

// Resolve runs the full exchange against the configured license server.
func (s *Session) Resolve(ctx context.Context, initData []byte) (int, error) {
	if s.fetcher == nil {
		return 0, fmt.Errorf("%w: session has no license fetcher", types.ErrPrecondition)
	}

	req, err := s.GenerateRequest(initData)
	if err != nil {
		return 0, err
	}

	resp, err := s.fetcher.FetchLicense(ctx, req)
	if err != nil {
		return 0, err
	}

	return s.Update(resp)
}

// Key returns the key held for id.
func (s *Session) Key(id types.KeyID) (types.Key, error) {
	key, ok := s.store.Get(id)
	if !ok {
		return types.Key{}, fmt.Errorf("%w: %s", types.ErrKeyNotFound, id)
	}
	return key, nil
}

// Decrypt decrypts one 16-byte aligned sample in place with the key held for id.
// iv is advanced past the sample.
func (s *Session) Decrypt(id types.KeyID, data, iv []byte) error {
	key, err := s.Key(id)
	if err != nil {
		return err
	}
	defer clear(key[:])

	return crypto.DecryptAES(key[:], data, iv)
}

// Close drops every key held by the session.
func (s *Session) Close() {
	s.store.Clear()
	s.keyIDs = nil
}
