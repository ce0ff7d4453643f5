package config

import "time"

type LedgerType string

const LEDGER_TYPE_MEMORY LedgerType = "memory"
const LEDGER_TYPE_REDIS LedgerType = "redis"

type Config struct {
	BaseURL           string
	LedgerType        LedgerType
	RedisConfig       RedisStorageConfig
	NavigationTimeout time.Duration
	ScreenshotOnError bool
	ScreenshotDir     string
	RequireApproval   bool
	HumanBehavior     HumanBehaviorConfig
	ErrorHandling     ErrorHandlingConfig
	Suspicion         SuspicionConfig
	Session           SessionConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
}

type HumanBehaviorConfig struct {
	EnableCoolingOff bool
	ActionsPerMinute int
	ActionsPerHour   int
	// Applied on top of the computed cooldown when the suspicion
	// detector reports suspicious activity.
	SuspicionCooldownMultiplier float64
	// Envelope for randomized micro-delays between simulated
	// pointer/scroll increments.
	MinActionDelay time.Duration
	MaxActionDelay time.Duration
}

type ErrorHandlingConfig struct {
	RetryAttempts  int
	RetryBaseDelay time.Duration
	MaxRetryDelay  time.Duration
}

type SuspicionConfig struct {
	RapidActionsPerMinute  int
	RepetitiveSampleSize   int
	RepetitiveTypeFraction float64
	// Coefficient-of-variation cutoff below which inter-action
	// intervals count as near-identical.
	IntervalVarianceCutoff float64
}

type SessionConfig struct {
	HealthCheckInterval  time.Duration
	AuthCacheTTL         time.Duration
	MaxActionsPerSession int
}

func Default() Config {
	return Config{
		BaseURL:           "https://www.linkedin.com",
		LedgerType:        LEDGER_TYPE_MEMORY,
		NavigationTimeout: 30 * time.Second,
		ScreenshotOnError: true,
		ScreenshotDir:     "screenshots",
		HumanBehavior: HumanBehaviorConfig{
			EnableCoolingOff:            true,
			ActionsPerMinute:            8,
			ActionsPerHour:              100,
			SuspicionCooldownMultiplier: 2.0,
			MinActionDelay:              50 * time.Millisecond,
			MaxActionDelay:              250 * time.Millisecond,
		},
		ErrorHandling: ErrorHandlingConfig{
			RetryAttempts:  3,
			RetryBaseDelay: time.Second,
			MaxRetryDelay:  30 * time.Second,
		},
		Suspicion: SuspicionConfig{
			RapidActionsPerMinute:  15,
			RepetitiveSampleSize:   10,
			RepetitiveTypeFraction: 0.8,
			IntervalVarianceCutoff: 0.15,
		},
		Session: SessionConfig{
			HealthCheckInterval:  30 * time.Second,
			AuthCacheTTL:         30 * time.Second,
			MaxActionsPerSession: 400,
		},
	}
}
