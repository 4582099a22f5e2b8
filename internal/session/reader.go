// Package session resolves the identity (an email address) that orders are
// fetched for from whatever the client persisted in its session.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"order_history/internal/redis"
)

// Provider yields the current identity, if any. Implementations never fail.
type Provider interface {
	Identity(ctx context.Context) (string, bool)
}

// Store is the persisted key-value storage a session lives in.
type Store interface {
	GetSessionValue(ctx context.Context, sessionID, field string) (string, error)
}

// ParseIdentity extracts the identity from a stored session value. The value
// may be a bare identity or JSON; for JSON a non-empty string "email" field is
// preferred, otherwise the parsed value itself is used.
func ParseIdentity(raw string) (string, bool) {
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw, raw != ""
	}

	switch v := parsed.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case map[string]interface{}:
		if email, ok := v["email"].(string); ok && email != "" {
			return email, true
		}
	}

	compact := new(bytes.Buffer)
	if err := json.Compact(compact, []byte(raw)); err != nil {
		return strings.TrimSpace(raw), true
	}
	return compact.String(), true
}

// Static is a Provider over a fixed stored value.
type Static string

func (s Static) Identity(context.Context) (string, bool) {
	return ParseIdentity(string(s))
}

// StoredProvider reads a visitor's session value from a Store.
type StoredProvider struct {
	Store     Store
	SessionID string
	Field     string
}

func NewStoredProvider(store Store, sessionID, field string) *StoredProvider {
	return &StoredProvider{Store: store, SessionID: sessionID, Field: field}
}

func (p *StoredProvider) Identity(ctx context.Context) (string, bool) {
	raw, err := p.Store.GetSessionValue(ctx, p.SessionID, p.Field)
	if err != nil {
		if !errors.Is(err, redis.ErrNotFound) {
			log.WithError(err).WithField("session_id", p.SessionID).Warn("reading session value")
		}
		return "", false
	}
	return ParseIdentity(raw)
}
