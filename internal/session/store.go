// Package session keeps the single active access token of every user.
//
// A Store maps a user id to exactly one token. Set overwrites whatever was
// stored before, so a new login invalidates every older token of that user.
// Entries expire after the TTL given to Set.
package session

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

type Store interface {
	// Set makes token the only valid session of userID for ttl.
	Set(ctx context.Context, userID uint, token string, ttl time.Duration) error
	// Valid reports whether token is the current, unexpired session of userID.
	Valid(ctx context.Context, userID uint, token string) (bool, error)
	// Delete drops the session of userID, if any.
	Delete(ctx context.Context, userID uint) error
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func sameHash(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
