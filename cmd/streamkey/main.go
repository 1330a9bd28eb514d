package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"verifiable-media-backend/internal/common/config"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/features/blockhash"
	"verifiable-media-backend/internal/features/message"
	"verifiable-media-backend/internal/features/schema"
	"verifiable-media-backend/internal/features/signature"
	"verifiable-media-backend/internal/features/streamkey"
)

// streamkey signs a stream, vod or attestation message with SIGNER_PRIVATE_KEY.
// Stream keys are printed as tokens, vod and attestation envelopes as JSON.
func main() {
	kind := flag.String("kind", schema.KindStream, "message kind: stream, vod or attestation")
	name := flag.String("name", "", "stream name (kind=stream)")
	contentID := flag.String("content", "", "content URI such as ipfs://<cid> (kind=vod)")
	metadata := flag.String("metadata", "{}", "JSON object of video metadata (kind=vod)")
	video := flag.String("video", "", "attested video reference (kind=attestation)")
	roles := flag.String("attest", "", "comma separated role=address pairs (kind=attestation)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.ServiceName+"-streamkey", cfg.Debug)

	if cfg.Signer.PrivateKey == "" {
		logger.Fatal().Msg("SIGNER_PRIVATE_KEY is required")
	}
	signer, err := signature.NewKeySigner(cfg.Signer.PrivateKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load signing key")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	registry, err := schema.NewRegistry(schema.Domain{
		Name:    cfg.Schema.DomainName,
		Version: cfg.Schema.DomainVersion,
		ChainID: cfg.Schema.DomainChainID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load typed-data schemas")
	}
	var schemas schema.Source = registry
	if cfg.Schema.BaseURL != "" {
		schemas = schema.NewRemoteSource(cfg.Schema.BaseURL, cfg.Schema.FetchTimeout, registry)
	}
	doc, err := schemas.Document(ctx, *kind)
	if err != nil {
		logger.Fatal().Err(err).Str("kind", *kind).Msg("Failed to resolve schema")
	}

	msg, closeBlocks, err := buildMessage(ctx, cfg, *kind, fields{
		name:      *name,
		contentID: *contentID,
		metadata:  *metadata,
		video:     *video,
		signer:    signer.Address().Hex(),
		roles:     *roles,
	})
	if closeBlocks != nil {
		defer closeBlocks()
	}
	if err != nil {
		logger.Fatal().Err(err).Str("kind", *kind).Msg("Failed to build message")
	}

	signed, err := signature.Sign(ctx, signer, doc, msg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to sign message")
	}
	logger.Info().
		Str("kind", signed.Kind).
		Str("address", strings.ToLower(signer.Address().Hex())).
		Msg("Message signed")

	if signed.Kind == schema.KindStream {
		token, err := streamkey.Encode(signed)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to encode stream key")
		}
		fmt.Println(token)
		return
	}

	out, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to encode envelope")
	}
	fmt.Println(string(out))
}

type fields struct {
	name      string
	contentID string
	metadata  string
	video     string
	signer    string
	roles     string
}

func buildMessage(ctx context.Context, cfg *config.Config, kind string, in fields) (message.Typed, func(), error) {
	if kind == schema.KindAttestation {
		attestations, err := parseAttestations(in.roles)
		if err != nil {
			return nil, nil, err
		}
		msg, err := message.NewCanonicalizer(nil).Attestation(in.video, in.signer, attestations, time.Now())
		return msg, nil, err
	}

	source, closeBlocks, err := dialBlocks(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	canon := message.NewCanonicalizer(blockhash.NewProvider(source, cfg.Chain.RefreshInterval))

	switch kind {
	case schema.KindStream:
		msg, err := canon.Stream(ctx, in.name)
		return msg, closeBlocks, err
	case schema.KindVOD:
		var meta map[string]interface{}
		if err := json.Unmarshal([]byte(in.metadata), &meta); err != nil {
			return nil, closeBlocks, fmt.Errorf("metadata must be a JSON object: %w", err)
		}
		msg, err := canon.VideoUpload(ctx, in.contentID, meta)
		return msg, closeBlocks, err
	default:
		return nil, closeBlocks, fmt.Errorf("unsupported kind %q", kind)
	}
}

func dialBlocks(ctx context.Context, cfg *config.Config) (blockhash.Source, func(), error) {
	if cfg.Chain.Source == config.ChainSourceTON {
		src, err := blockhash.DialTon(ctx, cfg.Chain.TonConfigURL)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	}
	src, err := blockhash.DialEthereum(ctx, cfg.Chain.EthereumRPCURL)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}

func parseAttestations(raw string) ([]message.Attestation, error) {
	var out []message.Attestation
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		role, address, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("attestation %q must be role=address", pair)
		}
		att, err := message.NewAttestation(role, address)
		if err != nil {
			return nil, err
		}
		out = append(out, att)
	}
	return out, nil
}
