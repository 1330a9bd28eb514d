package blockhash

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "verifiable-media-backend/internal/common/errors"
)

// AgeChecker rejects block hashes older than maxAge.
type AgeChecker struct {
	lookup TimeLookup
	maxAge time.Duration
	now    func() time.Time
}

func NewAgeChecker(lookup TimeLookup, maxAge time.Duration) *AgeChecker {
	return &AgeChecker{lookup: lookup, maxAge: maxAge, now: time.Now}
}

// Check returns STALE_BLOCK_HASH for unknown or expired hashes and
// REMOTE_FETCH_ERROR when the chain cannot be queried.
func (a *AgeChecker) Check(ctx context.Context, hash string) error {
	if hash == "" {
		return stale(hash, "block hash missing")
	}
	minted, err := a.lookup.BlockTime(ctx, hash)
	if errors.Is(err, ErrUnknownBlock) {
		return stale(hash, "block hash is not on the reference chain")
	}
	if err != nil {
		return apperrors.NewRemoteFetchError("block header", err)
	}
	if age := a.now().Sub(minted); age > a.maxAge {
		return stale(hash, fmt.Sprintf("block hash is %s old, limit %s", age.Truncate(time.Second), a.maxAge)).
			WithDetail("block_time", minted)
	}
	return nil
}

func stale(hash, reason string) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeStaleBlockHash, reason).WithDetail("block_hash", hash)
}
