package board

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"taskdeck/internal/models"
)

// BatchOp is a mutation applied to a set of tasks at once
type BatchOp string

const (
	BatchComplete BatchOp = "complete"
	BatchStart    BatchOp = "start"
	BatchDelete   BatchOp = "delete"
)

// BatchApply fires op against every id concurrently with no ordering
// guarantee. Every request runs to completion independently; one failure
// does not cancel its siblings. Reporting is still all-or-nothing: if
// any request fails the whole call returns that error, even though the
// others may already have mutated server state. That gap is inherited
// behavior and kept on purpose; the subsequent reload only happens when
// everything succeeded, so a reported failure never shows a half-applied
// local view.
func (b *Board) BatchApply(ctx context.Context, ids []int64, op BatchOp) error {
	if len(ids) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			switch op {
			case BatchComplete:
				return b.client.SetTaskState(ctx, id, models.StatusDone, 100)
			case BatchStart:
				return b.client.SetTaskState(ctx, id, models.StatusInProgress, 0)
			case BatchDelete:
				return b.client.DeleteTask(ctx, id)
			}
			return fmt.Errorf("unknown batch operation %q", op)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b.ClearSelection()
	return b.Reload(ctx)
}
