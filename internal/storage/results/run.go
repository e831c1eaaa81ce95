package results

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/quantarena/arena/internal/core"
)

// RunPrefix builds the artifact prefix for one run:
// runs/<stamp>-<short id>-<opponent strategy>. The short id keeps runs
// started in the same second distinct.
func RunPrefix(startedAt time.Time, id uuid.UUID, opponents core.Archetype) string {
	return path.Join("runs", fmt.Sprintf("%s-%s-%s",
		startedAt.UTC().Format("20060102-150405"),
		id.String()[:8],
		opponents,
	))
}

// SaveRun writes a set of named artifacts under the run prefix and returns
// the stored paths.
func SaveRun(ctx context.Context, store Store, prefix string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(artifacts))
	for name, data := range artifacts {
		p := path.Join(prefix, name)
		if err := store.Write(ctx, p, data); err != nil {
			return nil, core.WrapError(core.ErrStoreFailed,
				fmt.Errorf("writing %s: %w", p, err))
		}
		paths = append(paths, p)
	}
	return paths, nil
}
