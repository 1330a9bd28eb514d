package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	ChainSourceEthereum = "ethereum"
	ChainSourceTON      = "ton"

	NonPostRedirect = "redirect"
	NonPostReject   = "reject"
)

type Config struct {
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"verifiable-media-backend"`

	Server struct {
		Port            int           `env:"PORT" envDefault:"8080"`
		CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}

	Redis struct {
		Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Chain struct {
		Source          string        `env:"CHAIN_SOURCE" envDefault:"ethereum"`
		EthereumRPCURL  string        `env:"ETH_RPC_URL" envDefault:"https://cloudflare-eth.com"`
		TonConfigURL    string        `env:"TON_CONFIG_URL" envDefault:"https://ton.org/global-config.json"`
		RefreshInterval time.Duration `env:"BLOCK_REFRESH_INTERVAL" envDefault:"5s"`
		// Zero disables the proof-of-age check at the gateway.
		MaxBlockAge time.Duration `env:"MAX_BLOCK_AGE" envDefault:"0s"`
	}

	Schema struct {
		// Empty means the embedded documents are authoritative.
		BaseURL       string        `env:"SCHEMA_BASE_URL" envDefault:""`
		FetchTimeout  time.Duration `env:"SCHEMA_FETCH_TIMEOUT" envDefault:"3s"`
		CacheTTL      time.Duration `env:"SCHEMA_CACHE_TTL" envDefault:"1m"`
		DomainName    string        `env:"DOMAIN_NAME" envDefault:"Livepeer"`
		DomainVersion string        `env:"DOMAIN_VERSION" envDefault:"1.0.0"`
		DomainChainID int64         `env:"DOMAIN_CHAIN_ID" envDefault:"42161"`
	}

	Ingest struct {
		StreamPrefix      string   `env:"STREAM_PREFIX" envDefault:"stream"`
		NonPostMode       string   `env:"INGEST_NON_POST_MODE" envDefault:"redirect"`
		RedirectURL       string   `env:"INGEST_REDIRECT_URL" envDefault:"https://livepeer.name"`
		AllowedSigners    []string `env:"ALLOWED_SIGNERS" envSeparator:","`
		AllowListRedisKey string   `env:"ALLOWLIST_REDIS_KEY" envDefault:""`
	}

	Livepeer struct {
		APIURL string `env:"LIVEPEER_API_URL" envDefault:"https://livepeer.studio/api"`
		APIKey string `env:"LIVEPEER_API_KEY" envDefault:""`
	}

	IPFS struct {
		APIURL        string `env:"IPFS_API_URL" envDefault:"https://ipfs.infura.io:5001"`
		GatewayURL    string `env:"IPFS_GATEWAY_URL" envDefault:"https://infura-ipfs.io/ipfs/"`
		ProjectID     string `env:"IPFS_PROJECT_ID" envDefault:""`
		ProjectSecret string `env:"IPFS_PROJECT_SECRET" envDefault:""`
		MaxUploadMB   int    `env:"MAX_UPLOAD_MB" envDefault:"512"`
	}

	Import struct {
		APIURL       string        `env:"IMPORT_API_URL" envDefault:"http://localhost:8080/api"`
		PollInterval time.Duration `env:"IMPORT_POLL_INTERVAL" envDefault:"3s"`
		MaxAttempts  int           `env:"IMPORT_MAX_ATTEMPTS" envDefault:"200"`
		Deadline     time.Duration `env:"IMPORT_DEADLINE" envDefault:"10m"`
	}

	Signer struct {
		PrivateKey string `env:"SIGNER_PRIVATE_KEY" envDefault:""`
	}
}

// Load reads .env (when present) and the process environment into Config.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Chain.Source = strings.ToLower(strings.TrimSpace(c.Chain.Source))
	c.Ingest.NonPostMode = strings.ToLower(strings.TrimSpace(c.Ingest.NonPostMode))
	signers := make([]string, 0, len(c.Ingest.AllowedSigners))
	for _, s := range c.Ingest.AllowedSigners {
		if s = strings.TrimSpace(s); s != "" {
			signers = append(signers, s)
		}
	}
	c.Ingest.AllowedSigners = signers
}

// Validate checks cross-field constraints that env tags cannot express.
func (c *Config) Validate() error {
	switch c.Chain.Source {
	case ChainSourceEthereum, ChainSourceTON:
	default:
		return fmt.Errorf("CHAIN_SOURCE must be one of ethereum|ton, got %q", c.Chain.Source)
	}
	if c.Chain.RefreshInterval <= 0 {
		return fmt.Errorf("BLOCK_REFRESH_INTERVAL must be positive")
	}
	if c.Chain.MaxBlockAge < 0 {
		return fmt.Errorf("MAX_BLOCK_AGE must not be negative")
	}
	if c.Chain.MaxBlockAge > 0 && c.Chain.Source != ChainSourceEthereum {
		return fmt.Errorf("MAX_BLOCK_AGE requires CHAIN_SOURCE=ethereum")
	}
	switch c.Ingest.NonPostMode {
	case NonPostRedirect, NonPostReject:
	default:
		return fmt.Errorf("INGEST_NON_POST_MODE must be one of redirect|reject, got %q", c.Ingest.NonPostMode)
	}
	if c.Ingest.StreamPrefix == "" {
		return fmt.Errorf("STREAM_PREFIX must not be empty")
	}
	if c.Schema.DomainName == "" || c.Schema.DomainVersion == "" {
		return fmt.Errorf("DOMAIN_NAME and DOMAIN_VERSION are required")
	}
	if c.Schema.FetchTimeout <= 0 {
		return fmt.Errorf("SCHEMA_FETCH_TIMEOUT must be positive")
	}
	if c.Ingest.AllowListRedisKey != "" && !c.Redis.Enabled {
		return fmt.Errorf("ALLOWLIST_REDIS_KEY requires REDIS_ENABLED=true")
	}
	if c.Import.PollInterval <= 0 || c.Import.MaxAttempts <= 0 || c.Import.Deadline <= 0 {
		return fmt.Errorf("IMPORT_POLL_INTERVAL, IMPORT_MAX_ATTEMPTS and IMPORT_DEADLINE must be positive")
	}
	if c.IPFS.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
