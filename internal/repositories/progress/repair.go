package progress

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	redisclient "github.com/KirkDiggler/pokedex/internal/redis"
)

// RepairInput selects the redis keys to scan
type RepairInput struct {
	Client  redisclient.Client
	Pattern string
	// DryRun reports what would change without writing
	DryRun bool
	// ResetCorrupt overwrites unreadable blobs with default state
	ResetCorrupt bool
}

// RepairOutput summarizes a repair pass
type RepairOutput struct {
	Scanned  int
	Current  int
	Migrated []string
	Corrupt  []string
	Reset    []string
}

// RepairRedis walks every key matching the pattern, rewrites blobs stored at an
// older version at CurrentVersion and optionally resets corrupt ones.
func RepairRedis(ctx context.Context, input RepairInput) (*RepairOutput, error) {
	if input.Client == nil {
		return nil, errors.InvalidArgument("client cannot be nil")
	}
	pattern := input.Pattern
	if pattern == "" {
		pattern = DefaultKey
	}

	out := &RepairOutput{}
	iter := input.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		out.Scanned++

		data, err := input.Client.Get(ctx, key).Bytes()
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable key", "key", key, "error", err)
			continue
		}

		decoded, err := Decode(data)
		if err != nil {
			if !errors.IsDataLoss(err) {
				return out, err
			}
			out.Corrupt = append(out.Corrupt, key)
			slog.WarnContext(ctx, "found corrupt progress blob", "key", key, "error", err)
			if input.ResetCorrupt {
				if err := rewrite(ctx, input, key, newDefaultState()); err != nil {
					return out, err
				}
				out.Reset = append(out.Reset, key)
			}
			continue
		}

		if !decoded.Migrated {
			out.Current++
			continue
		}

		if err := rewrite(ctx, input, key, decoded.State); err != nil {
			return out, err
		}
		out.Migrated = append(out.Migrated, key)
		slog.InfoContext(ctx, "migrated progress blob",
			"key", key,
			"from_version", decoded.SourceVersion,
			"dry_run", input.DryRun)
	}
	if err := iter.Err(); err != nil {
		return out, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to scan progress keys")
	}

	return out, nil
}

func rewrite(ctx context.Context, input RepairInput, key string, state *entities.ProgressState) error {
	if input.DryRun {
		return nil
	}

	data, err := Encode(state)
	if err != nil {
		return err
	}

	ttl, err := input.Client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = 0
	}
	if err := input.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to rewrite %s", key)
	}
	return nil
}
