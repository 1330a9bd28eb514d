package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ChainSourceEthereum, cfg.Chain.Source)
	assert.Equal(t, 5*time.Second, cfg.Chain.RefreshInterval)
	assert.Equal(t, time.Duration(0), cfg.Chain.MaxBlockAge)
	assert.Equal(t, "Livepeer", cfg.Schema.DomainName)
	assert.Equal(t, "1.0.0", cfg.Schema.DomainVersion)
	assert.Equal(t, int64(42161), cfg.Schema.DomainChainID)
	assert.Equal(t, NonPostRedirect, cfg.Ingest.NonPostMode)
	assert.Equal(t, 3*time.Second, cfg.Import.PollInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_SIGNERS", " 0xAbC , ,0xdef")
	t.Setenv("INGEST_NON_POST_MODE", "REJECT")
	t.Setenv("MAX_BLOCK_AGE", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"0xAbC", "0xdef"}, cfg.Ingest.AllowedSigners)
	assert.Equal(t, NonPostReject, cfg.Ingest.NonPostMode)
	assert.Equal(t, 10*time.Minute, cfg.Chain.MaxBlockAge)
}

func TestValidateRejectsInvalidCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown chain", map[string]string{"CHAIN_SOURCE": "solana"}},
		{"block age on ton", map[string]string{"CHAIN_SOURCE": "ton", "MAX_BLOCK_AGE": "1m"}},
		{"unknown non-post mode", map[string]string{"INGEST_NON_POST_MODE": "teapot"}},
		{"redis allow list without redis", map[string]string{"ALLOWLIST_REDIS_KEY": "signers"}},
		{"zero poll interval", map[string]string{"IMPORT_POLL_INTERVAL": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
