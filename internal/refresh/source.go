package refresh

import (
	"context"
	"errors"

	"github.com/f3rmion/dfscope/internal/df"
)

// ErrNoSnapshot is returned by a Source before the first snapshot exists.
var ErrNoSnapshot = errors.New("no snapshot available yet")

// Source is a read view over the refresh loop, in-process or remote.
type Source interface {
	// Latest returns the current snapshot or ErrNoSnapshot.
	Latest(ctx context.Context) (*df.Snapshot, error)
	Status(ctx context.Context) (Status, error)
	// Refresh asks for a rebuild as soon as possible.
	Refresh(ctx context.Context) error
}

type localSource struct {
	s *Scheduler
}

// Source returns a Source backed by this scheduler and its store.
func (s *Scheduler) Source() Source { return localSource{s: s} }

func (l localSource) Latest(ctx context.Context) (*df.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, ok := l.s.store.Snapshot()
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func (l localSource) Status(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}
	return l.s.store.Status(), nil
}

func (l localSource) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.s.Refresh()
	return nil
}
