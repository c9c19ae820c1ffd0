// Package auth resolves opaque bearer tokens to user identifiers through
// an external identity provider.
package auth

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrUnauthenticated is returned for any credential that cannot be
// positively verified: bad scheme, provider rejection, timeout, or a
// malformed provider response. The caller never learns which.
var ErrUnauthenticated = errors.New("unauthenticated")

// Verifier resolves a bearer token to a stable user identifier.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// DefaultEndpoint is the Google Identity Toolkit REST base URL.
const DefaultEndpoint = "https://identitytoolkit.googleapis.com"

// FirebaseVerifier verifies tokens against the Firebase accounts:lookup
// endpoint. Each call is a network request on the caller's context.
type FirebaseVerifier struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewFirebaseVerifier creates a verifier for the given API key.
// Endpoint overrides the provider base URL (used in tests); empty means
// the real Identity Toolkit.
func NewFirebaseVerifier(apiKey, endpoint string, logger *zap.Logger) *FirebaseVerifier {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirebaseVerifier{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
	} `json:"users"`
}

// Verify resolves the token via accounts:lookup. All failure modes map to
// ErrUnauthenticated; provider detail goes to the log, not the caller.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(lookupRequest{IDToken: token})
	if err != nil {
		return "", ErrUnauthenticated
	}
	url := fmt.Sprintf("%s/v1/accounts:lookup?key=%s", v.endpoint, v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", ErrUnauthenticated
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("identity provider unreachable", zap.Error(err))
		return "", ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrUnauthenticated
	}
	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		v.logger.Warn("identity provider response malformed", zap.Error(err))
		return "", ErrUnauthenticated
	}
	if len(out.Users) == 0 || out.Users[0].LocalID == "" {
		return "", ErrUnauthenticated
	}
	return out.Users[0].LocalID, nil
}

// StaticVerifier maps fixed tokens to user IDs. Test implementation.
type StaticVerifier struct {
	Tokens map[string]string
}

// Verify looks the token up in the static map.
func (v *StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	uid, ok := v.Tokens[token]
	if !ok {
		return "", ErrUnauthenticated
	}
	return uid, nil
}

// CachedVerifier caches positive verification results in Redis for a
// short TTL, keyed by a hash of the token so raw credentials never reach
// Redis. Failures are never cached, and a cache outage falls through to
// the underlying verifier.
type CachedVerifier struct {
	next   Verifier
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedVerifier wraps next with a Redis-backed positive cache.
func NewCachedVerifier(next Verifier, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedVerifier{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:uid:" + hex.EncodeToString(sum[:])
}

// Verify returns a cached uid when present, otherwise delegates and
// caches the result on success.
func (v *CachedVerifier) Verify(ctx context.Context, token string) (string, error) {
	key := cacheKey(token)
	uid, err := v.rdb.Get(ctx, key).Result()
	if err == nil && uid != "" {
		return uid, nil
	}
	if err != nil && err != redis.Nil {
		v.logger.Warn("auth cache read failed", zap.Error(err))
	}

	uid, err = v.next.Verify(ctx, token)
	if err != nil {
		return "", err
	}
	if setErr := v.rdb.Set(ctx, key, uid, v.ttl).Err(); setErr != nil {
		v.logger.Warn("auth cache write failed", zap.Error(setErr))
	}
	return uid, nil
}
