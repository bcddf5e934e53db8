package gesture

import (
	"context"
	"sync"
	"time"

	"github.com/yukikurage/join-board/internal/logger"
)

// StatusPersister stores the new column of a card.
type StatusPersister interface {
	PersistStatus(ctx context.Context, cardID, column string) error
}

// PersisterFunc adapts a function to StatusPersister.
type PersisterFunc func(ctx context.Context, cardID, column string) error

func (f PersisterFunc) PersistStatus(ctx context.Context, cardID, column string) error {
	return f(ctx, cardID, column)
}

// CommitResult describes one finished persistence attempt.
type CommitResult struct {
	CardID string
	From   string
	To     string
	Err    error
}

// Committer persists status changes in the background. Failures are logged and
// reported through OnResult; the optimistic layout change is never rolled back.
type Committer struct {
	persister StatusPersister
	timeout   time.Duration
	log       *logger.Logger

	// OnResult, when set, is called from the persisting goroutine.
	OnResult func(CommitResult)

	wg sync.WaitGroup
}

// NewCommitter creates a Committer. A zero timeout means no deadline.
func NewCommitter(persister StatusPersister, timeout time.Duration, log *logger.Logger) *Committer {
	if log == nil {
		log = logger.Nop()
	}
	return &Committer{
		persister: persister,
		timeout:   timeout,
		log:       log.WithComponent("status_committer"),
	}
}

// Commit starts persisting the move of cardID from one column to another.
func (c *Committer) Commit(cardID, from, to string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx := context.Background()
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		err := c.persister.PersistStatus(ctx, cardID, to)
		if err != nil {
			c.log.Warnw("failed to persist task status", "task_id", cardID, "from", from, "to", to, "error", err)
		} else {
			c.log.Debugw("persisted task status", "task_id", cardID, "from", from, "to", to)
		}

		if c.OnResult != nil {
			c.OnResult(CommitResult{CardID: cardID, From: from, To: to, Err: err})
		}
	}()
}

// Wait blocks until every started commit has finished.
func (c *Committer) Wait() {
	c.wg.Wait()
}
