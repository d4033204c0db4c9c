package config

import (
	"strings"
	"time"
)

// CacheConfig drives the per-freelancer report cache.
type CacheConfig struct {
	Enabled bool
	// Methods served from cache.  A successful request with any other method
	// drops the caller's entries.
	Methods map[string]bool
	TTL     time.Duration
	// KeyStrategy is one of route, route_query, method_route or
	// method_route_query.
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int // 0 disables the limit
	// PurgeAllOnWrite drops every freelancer's entries after a write instead
	// of only the writer's.  Set from ENFORCE_PARENT_OWNERSHIP=false.
	PurgeAllOnWrite bool
}

func LoadCacheConfig() CacheConfig {
	cc := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		KeyStrategy:  strings.ToLower(envStr("CACHE_KEY_STRATEGY", "route_query")),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	cc.Methods = methodSet(envStr("CACHE_METHODS", "GET"))
	return cc
}

// methodSet splits a comma or space separated list into upper-cased methods.
func methodSet(list string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToUpper(list), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
