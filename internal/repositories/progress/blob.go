package progress

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/pokedex/internal/errors"
)

// blobStore reads and writes the raw encoded blob. read reports found=false
// when nothing has been stored yet.
type blobStore interface {
	read(ctx context.Context) (data []byte, found bool, err error)
	write(ctx context.Context, data []byte) error
	describe() string
}

type blobRepository struct {
	store blobStore
}

func (r *blobRepository) Load(ctx context.Context, _ LoadInput) (*LoadOutput, error) {
	data, found, err := r.store.read(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		slog.DebugContext(ctx, "no progress blob found, starting fresh", "store", r.store.describe())
		return &LoadOutput{State: newDefaultState(), SourceVersion: CurrentVersion}, nil
	}

	decoded, err := Decode(data)
	if err != nil {
		if !errors.IsDataLoss(err) {
			return nil, err
		}
		slog.WarnContext(ctx, "progress blob is corrupt, resetting to defaults",
			"store", r.store.describe(),
			"error", err)
		return &LoadOutput{
			State:         newDefaultState(),
			Found:         true,
			Recovered:     true,
			SourceVersion: CurrentVersion,
		}, nil
	}

	if len(decoded.Skipped) > 0 {
		slog.WarnContext(ctx, "progress blob had unreadable fields, using defaults for them",
			"store", r.store.describe(),
			"fields", decoded.Skipped)
	}

	if decoded.Migrated {
		slog.InfoContext(ctx, "migrated progress blob",
			"store", r.store.describe(),
			"from_version", decoded.SourceVersion,
			"to_version", CurrentVersion)
	}

	return &LoadOutput{
		State:         decoded.State,
		Found:         true,
		SourceVersion: decoded.SourceVersion,
	}, nil
}

func (r *blobRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}

	data, err := Encode(input.State)
	if err != nil {
		return nil, err
	}

	if err := r.store.write(ctx, data); err != nil {
		return nil, err
	}

	return &SaveOutput{Bytes: len(data)}, nil
}
