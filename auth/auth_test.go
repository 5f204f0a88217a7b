// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

type mapKV struct {
	data   map[string]string
	setErr error
	sets   int
}

func newMapKV() *mapKV { return &mapKV{data: map[string]string{}} }

func (m *mapKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mapKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestNewAnonymousID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewAnonymousID()
		if len(id) != 36 {
			t.Errorf("Expected UUID string of length 36, got %q", id)
		}
		if seen[id] {
			t.Errorf("Duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestResolveAnonymousID(t *testing.T) {
	t.Run("generates and persists once", func(t *testing.T) {
		kv := newMapKV()
		calls := 0
		gen := func() string {
			calls++
			return "generated-id"
		}

		id, err := ResolveAnonymousID(kv, gen)
		if err != nil {
			t.Fatal(err)
		}
		if id != "generated-id" {
			t.Errorf("Expected generated-id, got %s", id)
		}

		again, err := ResolveAnonymousID(kv, gen)
		if err != nil {
			t.Fatal(err)
		}
		if again != id {
			t.Errorf("Expected stable id, got %s then %s", id, again)
		}
		if calls != 1 || kv.sets != 1 {
			t.Errorf("Expected 1 generation and 1 write, got %d and %d", calls, kv.sets)
		}
	})

	t.Run("returns stored id", func(t *testing.T) {
		kv := newMapKV()
		kv.data[AnonymousIDKey] = "existing"

		id, err := ResolveAnonymousID(kv, func() string {
			t.Fatal("generator should not be called")
			return ""
		})
		if err != nil || id != "existing" {
			t.Errorf("Expected existing, got %q (%v)", id, err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		kv := newMapKV()
		kv.setErr = errors.New("disk full")

		if _, err := ResolveAnonymousID(kv, NewAnonymousID); err == nil {
			t.Error("Expected error when id cannot be stored")
		}
	})
}

func TestStoredIdentity(t *testing.T) {
	kv := newMapKV()
	p := StoredIdentity{KV: kv}

	a, err := p.AnonymousID()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := p.AnonymousID()
	if a != b {
		t.Errorf("Identity should be stable across calls: %s vs %s", a, b)
	}
}

func TestValidAnonymousID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"u1", true},
		{"", false},
		{"   ", false},
		{strings.Repeat("x", MaxAnonymousIDLen), true},
		{strings.Repeat("x", MaxAnonymousIDLen+1), false},
		{"__healthcheck__", false},
		{ReservedIDPrefix + "anything", false},
		{"a__b", true},
	}
	for _, tt := range tests {
		if got := ValidAnonymousID(tt.id); got != tt.want {
			t.Errorf("ValidAnonymousID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidateBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"valid", "Bearer anon-key", nil},
		{"case insensitive scheme", "bearer anon-key", nil},
		{"missing", "", ErrMissingBearer},
		{"wrong scheme", "Basic anon-key", ErrInvalidBearer},
		{"no token", "Bearer ", ErrInvalidBearer},
		{"wrong key", "Bearer other-key", ErrInvalidBearer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBearer(tt.header, "anon-key")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
