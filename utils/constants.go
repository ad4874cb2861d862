package utils

import (
	"time"
)

// Context keys used by handlers to thread request metadata into flows
type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds (86400 seconds = 24 hours)
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Cache keys (combined with the configured redis prefix)
const (
	// PopularTagsCacheKey caches the popular-tag ranking
	PopularTagsCacheKey = "tags:popular"
)

// Listing and search constants
const (
	// DefaultPageSize is the page size applied when none is requested
	DefaultPageSize = 20

	// MaxPageSize caps a requested page size
	MaxPageSize = 100

	// GlobalSearchPerKindLimit caps each sub-search of the global fan-out
	GlobalSearchPerKindLimit = 5

	// TopPostsLimit caps each list of a profile's top questions and answers
	TopPostsLimit = 5
)
