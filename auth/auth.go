// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrMissingBearer = errors.New("missing bearer token")
	ErrInvalidBearer = errors.New("invalid bearer token")
)

// AnonymousIDKey is the local storage key holding the client's identity.
const AnonymousIDKey = "anonymous-user-id"

// MaxAnonymousIDLen bounds ids accepted by the server.
const MaxAnonymousIDLen = 128

// ReservedIDPrefix marks ids the server writes for itself, such as the
// storage health check row. Clients may not use them.
const ReservedIDPrefix = "__"

// KeyValue is the local storage the client persists its state in.
type KeyValue interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// IdentityProvider hands the poll client its anonymous user id.
type IdentityProvider interface {
	AnonymousID() (string, error)
}

// NewAnonymousID creates a random opaque identifier.
// Uniqueness is probabilistic; collisions are accepted.
func NewAnonymousID() string {
	return uuid.NewString()
}

// ResolveAnonymousID returns the id stored under AnonymousIDKey, generating
// and persisting one with newID when none exists.
func ResolveAnonymousID(kv KeyValue, newID func() string) (string, error) {
	id, ok, err := kv.Get(AnonymousIDKey)
	if err != nil {
		return "", fmt.Errorf("read anonymous id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = newID()
	if err := kv.Set(AnonymousIDKey, id); err != nil {
		return "", fmt.Errorf("store anonymous id: %w", err)
	}
	return id, nil
}

// StoredIdentity is an IdentityProvider backed by local storage. The same id
// is used for every poll type.
type StoredIdentity struct {
	KV    KeyValue
	NewID func() string
}

func (s StoredIdentity) AnonymousID() (string, error) {
	gen := s.NewID
	if gen == nil {
		gen = NewAnonymousID
	}
	return ResolveAnonymousID(s.KV, gen)
}

// ValidAnonymousID reports whether an id from a request is acceptable.
func ValidAnonymousID(id string) bool {
	return strings.TrimSpace(id) != "" &&
		len(id) <= MaxAnonymousIDLen &&
		!strings.HasPrefix(id, ReservedIDPrefix)
}

// ParseBearer extracts the token from an Authorization header value
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingBearer
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidBearer
	}
	return strings.TrimSpace(token), nil
}

// ValidateBearer checks the header carries the expected key
func ValidateBearer(header, key string) error {
	token, err := ParseBearer(header)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(token), []byte(key)) {
		return ErrInvalidBearer
	}
	return nil
}
