package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "verifiable-media-backend/docs"
	"verifiable-media-backend/internal/common/cache"
	"verifiable-media-backend/internal/common/config"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/common/middleware"
	assetHTTP "verifiable-media-backend/internal/features/asset/delivery/http"
	assetService "verifiable-media-backend/internal/features/asset/service"
	"verifiable-media-backend/internal/features/attestation"
	attestationHTTP "verifiable-media-backend/internal/features/attestation/delivery/http"
	"verifiable-media-backend/internal/features/blockhash"
	"verifiable-media-backend/internal/features/ingest"
	ingestHTTP "verifiable-media-backend/internal/features/ingest/delivery/http"
	"verifiable-media-backend/internal/features/schema"
	schemaHTTP "verifiable-media-backend/internal/features/schema/delivery/http"
	uploadHTTP "verifiable-media-backend/internal/features/upload/delivery/http"
	uploadService "verifiable-media-backend/internal/features/upload/service"
	"verifiable-media-backend/internal/platform/ipfs"
	"verifiable-media-backend/internal/platform/livepeer"
	"verifiable-media-backend/internal/platform/redis"
)

// @title           Verifiable Media API
// @version         1.0
// @description     Stream key verification for media servers, typed-data schemas, IPFS uploads and signed video imports.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

// @tag.name ingest
// @tag.description Media server webhooks. Plain text in and out.

// @tag.name schemas
// @tag.description EIP-712 typed-data documents per message kind

// @tag.name assets
// @tag.description Signed video imports into Livepeer Studio

// @tag.name uploads
// @tag.description IPFS pinning of videos and signed metadata

// @tag.name attestations
// @tag.description Video attestation verification

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.ServiceName, cfg.Debug)
	logger.Info().
		Str("version", "1.0.0").
		Bool("debug", cfg.Debug).
		Str("chain_source", cfg.Chain.Source).
		Msg("Starting verifiable media backend")

	ctx := context.Background()

	var redisClient *redis.Client
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Redis.Enabled {
		redisClient, err = redis.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		store = cache.NewCacheService(redisClient)
		logger.Info().Str("addr", cfg.RedisAddr()).Msg("Redis cache initialized")
	}

	blocks, closeBlocks, lookup, err := openBlockSource(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to reference chain")
	}
	defer closeBlocks()
	provider := blockhash.NewProvider(blocks, cfg.Chain.RefreshInterval)

	registry, err := schema.NewRegistry(schema.Domain{
		Name:    cfg.Schema.DomainName,
		Version: cfg.Schema.DomainVersion,
		ChainID: cfg.Schema.DomainChainID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load typed-data schemas")
	}
	var source schema.Source = registry
	if cfg.Schema.BaseURL != "" {
		source = schema.NewRemoteSource(cfg.Schema.BaseURL, cfg.Schema.FetchTimeout, registry)
		logger.Info().Str("base_url", cfg.Schema.BaseURL).Msg("Remote schema source enabled")
	}
	schemas := schema.NewCachedSource(source, store, cfg.Schema.CacheTTL, cfg.Schema.DomainVersion)

	authorizer, err := buildAuthorizer(cfg, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build signer authorizer")
	}
	var ages ingest.AgeCheck
	if cfg.Chain.MaxBlockAge > 0 {
		ages = blockhash.NewAgeChecker(lookup, cfg.Chain.MaxBlockAge)
		logger.Info().Dur("max_age", cfg.Chain.MaxBlockAge).Msg("Block hash freshness check enabled")
	}

	ipfsClient := ipfs.NewClient(cfg.IPFS.APIURL, cfg.IPFS.GatewayURL, cfg.IPFS.ProjectID, cfg.IPFS.ProjectSecret)
	studio := livepeer.NewClient(cfg.Livepeer.APIURL, cfg.Livepeer.APIKey)

	ingestSvc := ingest.NewService(schemas, authorizer, ages, cfg.Ingest.StreamPrefix)
	assetSvc := assetService.NewAssetService(ipfsClient, studio, schemas)
	uploadSvc := uploadService.NewUploadService(ipfsClient, schemas)
	attestationSvc := attestation.NewService(schemas)

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	root := router.Group("")
	schemaHTTP.NewSchemaHandler(registry).RegisterRoutes(root)
	ingestHTTP.NewIngestHandler(ingestSvc, cfg.Ingest.NonPostMode, cfg.Ingest.RedirectURL).RegisterRoutes(root)

	api := router.Group("/api")
	assetHTTP.NewAssetHandler(assetSvc).RegisterRoutes(api)
	uploadHTTP.NewUploadHandler(uploadSvc, int64(cfg.IPFS.MaxUploadMB)<<20).RegisterRoutes(api)
	attestationHTTP.NewAttestationHandler(attestationSvc).RegisterRoutes(api)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	setupProbes(router, cfg, provider, redisClient)
	router.NoRoute(middleware.NotFound())

	logger.Info().Msg("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// openBlockSource dials the configured reference chain. lookup is nil for
// chains without block lookup by hash.
func openBlockSource(ctx context.Context, cfg *config.Config) (blockhash.Source, func(), blockhash.TimeLookup, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.Chain.Source {
	case config.ChainSourceTON:
		src, err := blockhash.DialTon(dialCtx, cfg.Chain.TonConfigURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return src, src.Close, nil, nil
	default:
		src, err := blockhash.DialEthereum(dialCtx, cfg.Chain.EthereumRPCURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return src, src.Close, src, nil
	}
}

func buildAuthorizer(cfg *config.Config, redisClient *redis.Client) (ingest.Authorizer, error) {
	var chain ingest.Chain
	if len(cfg.Ingest.AllowedSigners) > 0 {
		static, err := ingest.NewStaticAllowList(cfg.Ingest.AllowedSigners)
		if err != nil {
			return nil, err
		}
		chain = append(chain, static)
	}
	if cfg.Ingest.AllowListRedisKey != "" && redisClient != nil {
		chain = append(chain, ingest.NewRedisAllowList(redisClient, cfg.Ingest.AllowListRedisKey))
	}
	if len(chain) == 0 {
		return ingest.AllowAll{}, nil
	}
	logger.Info().Int("authorizers", len(chain)).Msg("Signer allow-list enabled")
	return chain, nil
}

func setupProbes(router *gin.Engine, cfg *config.Config, provider *blockhash.Provider, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   cfg.ServiceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unready",
					"error":   "redis unavailable",
					"details": err.Error(),
				})
				return
			}
		}

		block, err := provider.Current(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "reference chain unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"timestamp":  time.Now().UTC(),
			"service":    cfg.ServiceName,
			"block_hash": block.Hash,
		})
	})
}
