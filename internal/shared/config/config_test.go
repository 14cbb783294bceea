package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.HTTPAddr)
	require.Equal(t, "postgres", cfg.StoreBackend)
	require.Equal(t, 5*time.Minute, cfg.MinAuctionDuration)
	require.Equal(t, 7*24*time.Hour, cfg.MaxAuctionDuration)
	require.Equal(t, 24*time.Hour, cfg.ReopenGraceWindow)
	require.Equal(t, time.Minute, cfg.SweepInterval)
	require.Equal(t, 50, cfg.SweepBatchSize)
	require.Equal(t, "lowest", cfg.WinnerPolicy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REOPEN_GRACE_WINDOW", "12h")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("SWEEP_BATCH_SIZE", "10")
	t.Setenv("WINNER_POLICY", "lowest_unique")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 12*time.Hour, cfg.ReopenGraceWindow)
	require.Equal(t, 30*time.Second, cfg.SweepInterval)
	require.Equal(t, 10, cfg.SweepBatchSize)
	require.Equal(t, "lowest_unique", cfg.WinnerPolicy)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad_duration", key: "SWEEP_INTERVAL", value: "soon"},
		{name: "bad_int", key: "SWEEP_BATCH_SIZE", value: "many"},
		{name: "zero_batch", key: "SWEEP_BATCH_SIZE", value: "0"},
		{name: "unknown_policy", key: "WINNER_POLICY", value: "highest"},
		{name: "inverted_bounds", key: "AUCTION_MAX_DURATION", value: "1m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
