package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nileshswami544-code/freelancerpayment/internal/config"
)

// bodyRecorder tees the response to the client and keeps up to limit bytes
// of it (no limit when limit <= 0).  overflow is set once more was written.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	body     bytes.Buffer
	limit    int
	overflow bool
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.status = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(p []byte) (int, error) {
	if !br.overflow {
		if br.limit > 0 && br.body.Len()+len(p) > br.limit {
			br.overflow = true
			br.body.Reset()
		} else {
			br.body.Write(p)
		}
	}
	return br.ResponseWriter.Write(p)
}

// cachedResponse is what one Redis entry holds.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h"`
	Body   []byte      `json:"b"`
}

func (cr cachedResponse) replay(c echo.Context) {
	h := c.Response().Header()
	for k, vals := range cr.Header {
		if strings.EqualFold(k, echo.HeaderContentLength) {
			continue
		}
		h[k] = append([]string(nil), vals...)
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(cr.Status)
	if len(cr.Body) > 0 {
		_, _ = c.Response().Write(cr.Body)
	}
}

// principalPrefix is the key namespace owned by one freelancer.  Every cached
// entry of that freelancer lives under it so a write can drop them all.
func principalPrefix(cfg config.CacheConfig, id uint64) string {
	return cfg.Prefix + ":u:" + strconv.FormatUint(id, 10) + ":"
}

// cacheKeyFrom builds a stable key honoring the prefix and key strategy.  The
// principal is always part of the key: reports are per-freelancer.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, id uint64) string {
	r := c.Request()
	route := c.Path()
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", route}
	case "method_route":
		parts = []string{"method", r.Method, "route", route}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", route, "q", query}
	default: // "route_query"
		parts = []string{"route", route, "q", query}
	}

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s%x", principalPrefix(cfg, id), sum[:])
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// ReportCache serves successful responses of cfg.Methods from Redis, scoped to
// the authenticated principal.  It must run after JWTAuth; requests without a
// principal are never cached.  A nil client or disabled config turns it into
// a pass-through.
func ReportCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.SugaredLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := PrincipalID(c)
			if !ok || !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c, id)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cr cachedResponse
				if jerr := json.Unmarshal(bs, &cr); jerr == nil && cr.Status != 0 {
					cr.replay(c)
					return nil
				}
			} else if err != redis.Nil {
				log.Warnw("report cache: get failed", "error", err)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			bs, err := json.Marshal(cachedResponse{Status: rec.status, Header: hdr, Body: rec.body.Bytes()})
			if err != nil {
				return nil
			}
			if err := rdb.Set(context.WithoutCancel(ctx), key, bs, ttl).Err(); err != nil {
				log.Warnw("report cache: set failed", "error", err)
			}
			return nil
		}
	}
}

// InvalidateOnWrite drops every cached entry of the principal after a
// successful request whose method is not cached (POST, PUT, DELETE), or of
// all principals when cfg.PurgeAllOnWrite is set.  It must run after JWTAuth.
func InvalidateOnWrite(cfg config.CacheConfig, rdb *redis.Client, log *zap.SugaredLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil || cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return err
			}
			if c.Response().Status >= http.StatusBadRequest {
				return nil
			}
			id, ok := PrincipalID(c)
			if !ok {
				return nil
			}
			prefix := principalPrefix(cfg, id)
			if cfg.PurgeAllOnWrite {
				prefix = cfg.Prefix + ":u:"
			}
			if n, derr := purgePrefix(context.WithoutCancel(c.Request().Context()), rdb, prefix); derr != nil {
				log.Warnw("report cache: invalidate failed", "principal_id", id, "error", derr)
			} else if n > 0 {
				log.Debugw("report cache: invalidated", "principal_id", id, "keys", n)
			}
			return nil
		}
	}
}

// purgePrefix deletes keys matching prefix* with SCAN so large keyspaces do
// not block the server.
func purgePrefix(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
