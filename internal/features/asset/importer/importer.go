package importer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "verifiable-media-backend/internal/common/errors"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/features/asset/models"
	"verifiable-media-backend/internal/platform/livepeer"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusImporting Status = "importing"
	StatusReady     Status = "ready"
	StatusFailed    Status = "failed"
	StatusTimeout   Status = "timeout"
)

func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusFailed || s == StatusTimeout
}

// ErrSuperseded is returned by a Run whose job was replaced by a newer Run.
var ErrSuperseded = errors.New("import job superseded")

// Job is a snapshot of one import. Snapshots handed to callers are copies.
type Job struct {
	ID          string `json:"id"`
	Hash        string `json:"hash"`
	AssetID     string `json:"assetId,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	Status      Status `json:"status"`
	PlaybackURL string `json:"playbackUrl,omitempty"`
	Err         string `json:"error,omitempty"`
	Attempts    int    `json:"attempts"`
}

// API is the asset import endpoint the importer drives.
type API interface {
	Create(ctx context.Context, hash string) (*models.CreateAssetResponse, error)
	Asset(ctx context.Context, id string) (*livepeer.Asset, error)
}

type Config struct {
	PollInterval time.Duration
	MaxAttempts  int
	Deadline     time.Duration
}

// Importer submits a content hash and polls the resulting asset until it
// reaches a terminal status. Only the most recent Run is current.
type Importer struct {
	api API
	cfg Config

	mu      sync.Mutex
	current string
}

func New(api API, cfg Config) *Importer {
	return &Importer{api: api, cfg: cfg}
}

// Run drives one import. onUpdate, when set, receives every state change.
// Failed and Timeout jobs come back together with IMPORT_FAILED or
// IMPORT_TIMEOUT errors.
func (i *Importer) Run(ctx context.Context, hash string, onUpdate func(Job)) (Job, error) {
	job := Job{ID: uuid.NewString(), Hash: hash, Status: StatusPending}
	i.mu.Lock()
	i.current = job.ID
	i.mu.Unlock()

	emit := func(j Job) {
		if onUpdate != nil {
			onUpdate(j)
		}
	}
	emit(job)

	created, err := i.api.Create(ctx, hash)
	if !i.isCurrent(job.ID) {
		return job, ErrSuperseded
	}
	if err != nil {
		if ctx.Err() != nil {
			return job, ctx.Err()
		}
		return i.fail(job, emit, err.Error())
	}
	job.SourceURL = created.URL
	if created.OutputAssetID == "" {
		return i.fail(job, emit, "import returned no asset id")
	}
	job.AssetID = created.OutputAssetID
	job.Status = StatusImporting
	emit(job)

	deadline := time.Now().Add(i.cfg.Deadline)
	pollCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	for {
		if job.Attempts >= i.cfg.MaxAttempts {
			return i.timeout(job, emit)
		}

		timer := time.NewTimer(i.cfg.PollInterval)
		select {
		case <-pollCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return job, ctx.Err()
			}
			return i.timeout(job, emit)
		case <-timer.C:
		}

		job.Attempts++
		asset, err := i.api.Asset(pollCtx, job.AssetID)
		if !i.isCurrent(job.ID) {
			return job, ErrSuperseded
		}
		if err != nil {
			if ctx.Err() != nil {
				return job, ctx.Err()
			}
			logger.Warn().Err(err).
				Str("job_id", job.ID).
				Str("asset_id", job.AssetID).
				Int("attempt", job.Attempts).
				Msg("Asset poll failed")
			emit(job)
			continue
		}

		switch {
		case asset.PlaybackURL != "":
			job.Status = StatusReady
			job.PlaybackURL = asset.PlaybackURL
			emit(job)
			logger.Info().Str("job_id", job.ID).Str("asset_id", job.AssetID).Msg("Asset ready")
			return job, nil
		case asset.Status.Phase == "failed":
			reason := asset.Status.ErrorMessage
			if reason == "" {
				reason = "asset import failed"
			}
			return i.fail(job, emit, reason)
		default:
			emit(job)
		}
	}
}

func (i *Importer) isCurrent(id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current == id
}

func (i *Importer) fail(job Job, emit func(Job), reason string) (Job, error) {
	job.Status = StatusFailed
	job.Err = reason
	emit(job)
	logger.Warn().Str("job_id", job.ID).Str("asset_id", job.AssetID).Str("reason", reason).Msg("Asset import failed")
	return job, apperrors.New(apperrors.ErrCodeImportFailed, reason).
		WithDetail("job_id", job.ID).
		WithDetail("asset_id", job.AssetID)
}

func (i *Importer) timeout(job Job, emit func(Job)) (Job, error) {
	job.Status = StatusTimeout
	job.Err = "asset did not become ready in time"
	emit(job)
	return job, apperrors.New(apperrors.ErrCodeImportTimeout, job.Err).
		WithDetail("job_id", job.ID).
		WithDetail("attempts", job.Attempts)
}
