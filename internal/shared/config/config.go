package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every engine tunable. The durations that the business rules
// depend on (auction length bounds, reopen grace window, sweep cadence) are
// deliberately configuration, not constants.
type Config struct {
	HTTPAddr     string
	StoreBackend string // "postgres" or "memory"

	// Auction duration bounds enforced at creation time.
	MinAuctionDuration time.Duration
	MaxAuctionDuration time.Duration

	// ReopenGraceWindow is added to EndTime when a winner withdraws and no
	// backup bid exists, so the reopened auction stays biddable.
	ReopenGraceWindow time.Duration

	// Expiry sweep settings.
	SweepInterval      time.Duration
	SweepBatchSize     int
	SweepRetryAttempts int
	SweepRetryBackoff  time.Duration

	// WinnerPolicy selects the resolver variant: "lowest" (canonical) or
	// "lowest_unique".
	WinnerPolicy string
}

// Load reads configuration from the environment (.env supported), applying
// defaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":9000"),
		StoreBackend: getEnv("STORE_BACKEND", "postgres"),
		WinnerPolicy: getEnv("WINNER_POLICY", "lowest"),
	}

	var err error
	if cfg.MinAuctionDuration, err = getDuration("AUCTION_MIN_DURATION", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxAuctionDuration, err = getDuration("AUCTION_MAX_DURATION", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReopenGraceWindow, err = getDuration("REOPEN_GRACE_WINDOW", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.SweepRetryBackoff, err = getDuration("SWEEP_RETRY_BACKOFF", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.SweepBatchSize, err = getInt("SWEEP_BATCH_SIZE", 50); err != nil {
		return nil, err
	}
	if cfg.SweepRetryAttempts, err = getInt("SWEEP_RETRY_ATTEMPTS", 3); err != nil {
		return nil, err
	}

	if cfg.MinAuctionDuration <= 0 || cfg.MaxAuctionDuration < cfg.MinAuctionDuration {
		return nil, fmt.Errorf("config: invalid auction duration bounds [%s, %s]",
			cfg.MinAuctionDuration, cfg.MaxAuctionDuration)
	}
	if cfg.SweepBatchSize <= 0 {
		return nil, fmt.Errorf("config: SWEEP_BATCH_SIZE must be positive, got %d", cfg.SweepBatchSize)
	}
	if cfg.WinnerPolicy != "lowest" && cfg.WinnerPolicy != "lowest_unique" {
		return nil, fmt.Errorf("config: unknown WINNER_POLICY %q", cfg.WinnerPolicy)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parsing %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: parsing %s: %w", key, err)
	}
	return n, nil
}
