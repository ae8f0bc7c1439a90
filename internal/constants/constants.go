package constants

import "time"

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
)

// Headers
const (
	HeaderRequestID = "X-Request-ID"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Generation bounds
const (
	MinDirtinessLevel     = 1
	MaxDirtinessLevel     = 10
	DefaultDirtinessLevel = 5
	MinRating             = 1
	MaxRating             = 5
	MinTemperature        = 0.0
	MaxTemperature        = 2.0
	MinMaxTokens          = 50
	MaxMaxTokens          = 500
)

// Styles
const (
	StylePlayful  = "playful"
	StyleRomantic = "romantic"
	StyleFunny    = "funny"
	StyleCheesy   = "cheesy"
	StyleUnhinged = "unhinged"
	DefaultStyle  = StylePlayful
)

// ValidStyles lists the styles accepted by settings updates, in display order.
var ValidStyles = []string{StylePlayful, StyleRomantic, StyleFunny, StyleCheesy, StyleUnhinged}

// Cache
const (
	PickupCacheKeyPrefix = "pickup"
	PickupCacheTTL       = time.Hour
)

// Statistics
const (
	DefaultStatsDays   = 30
	RecentActivityDays = 7
)
