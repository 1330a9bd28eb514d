package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	apperrors "verifiable-media-backend/internal/common/errors"
)

// Authorizer decides whether a recovered signer may publish.
type Authorizer interface {
	Authorize(ctx context.Context, signer common.Address) error
}

// AllowAll authorizes every recoverable signer.
type AllowAll struct{}

func (AllowAll) Authorize(context.Context, common.Address) error { return nil }

type StaticAllowList struct {
	allowed map[common.Address]struct{}
}

func NewStaticAllowList(addresses []string) (*StaticAllowList, error) {
	allowed := make(map[common.Address]struct{}, len(addresses))
	for _, a := range addresses {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("invalid signer address %q", a)
		}
		allowed[common.HexToAddress(a)] = struct{}{}
	}
	return &StaticAllowList{allowed: allowed}, nil
}

func (l *StaticAllowList) Authorize(_ context.Context, signer common.Address) error {
	if _, ok := l.allowed[signer]; !ok {
		return unauthorized(signer)
	}
	return nil
}

type setMembership interface {
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
}

// RedisAllowList checks membership of the lowercase hex address in a Redis set.
type RedisAllowList struct {
	client setMembership
	key    string
}

func NewRedisAllowList(client setMembership, key string) *RedisAllowList {
	return &RedisAllowList{client: client, key: key}
}

func (l *RedisAllowList) Authorize(ctx context.Context, signer common.Address) error {
	ok, err := l.client.SIsMember(ctx, l.key, strings.ToLower(signer.Hex())).Result()
	if err != nil {
		return apperrors.NewCacheError("allow-list lookup", err)
	}
	if !ok {
		return unauthorized(signer)
	}
	return nil
}

// Chain requires every authorizer to pass; the first denial wins.
type Chain []Authorizer

func (c Chain) Authorize(ctx context.Context, signer common.Address) error {
	for _, a := range c {
		if err := a.Authorize(ctx, signer); err != nil {
			return err
		}
	}
	return nil
}

func unauthorized(signer common.Address) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUnauthorizedSigner, "signer is not authorized to publish").
		WithDetail("address", strings.ToLower(signer.Hex()))
}
