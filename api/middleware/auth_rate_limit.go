package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ecoelite/booking-backend/api/responses"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/logger"
	"github.com/ecoelite/booking-backend/pkg/redis"
)

// AuthRateLimitPolicy defines the throttling parameters for a traffic surface.
type AuthRateLimitPolicy struct {
	name          string
	window        time.Duration
	ipLimit       int
	identityLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
// The identity limit counts attempts per submitted email or username.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, identityLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:          strings.ToLower(strings.TrimSpace(name)),
		window:        window,
		ipLimit:       ipLimit,
		identityLimit: identityLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.identityLimit > 0)
}

func (p AuthRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

func (p AuthRateLimitPolicy) ipScope(ip string) string {
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("%s:ip:%s", p.normalizedName(), ip)
}

func (p AuthRateLimitPolicy) identityScope(hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("%s:identity:%s", p.normalizedName(), hash)
}

// AuthRateLimit enforces per-IP and per-identity counters for the login and
// register endpoints.
func AuthRateLimit(policy AuthRateLimitPolicy, limiter redis.RateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 {
				if scope := policy.ipScope(ip); scope != "" {
					allowed, count, err := limiter.FixedWindowAllow(ctx, scope, int64(policy.ipLimit), policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "ip", ip, "", count, policy.ipLimit)
						return
					}
				}
			}

			if policy.identityLimit > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if identity := normalizeIdentity(extractIdentity(body)); identity != "" {
					hash := hashValue(identity)
					allowed, count, err := limiter.FixedWindowAllow(ctx, policy.identityScope(hash), int64(policy.identityLimit), policy.window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						respondRateLimited(ctx, logg, w, policy, "identity", "", hash, count, policy.identityLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, scope, ip, identityHash string, count int64, limit int) {
	if logg != nil {
		fields := map[string]any{
			"scope":          scope,
			"policy":         policy.normalizedName(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		}
		if ip != "" {
			fields["ip"] = ip
		}
		if identityHash != "" {
			fields["identity_hash"] = identityHash
		}
		logCtx := logg.WithFields(ctx, fields)
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// extractIdentity reads the email (register) or username (login) field.
func extractIdentity(payload []byte) string {
	var body struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Email != "" {
		return body.Email
	}
	return body.Username
}

func normalizeIdentity(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
