// workers/janitor.go runs a gocron-driven periodic job that scans a
// window of recent turns (LookbackTurns back from the current turn) and
// logs how many unpaired matchmaking records each turn still holds, for
// operator visibility. It never deletes —
// out-of-band deletion remains a separate administrative action,
// exposed directly via kvstore.Store.Delete.
package workers

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"turn-matchmaking-coordinator/internal/keyschema"
	"turn-matchmaking-coordinator/internal/kvstore"
)

// Janitor periodically reports orphaned matchmaking records for a
// bounded window of recent turns.
type Janitor struct {
	Store         kvstore.Store
	CurrentTurn   func() uint32
	LookbackTurns uint32
}

// NewJanitor constructs a Janitor. currentTurn is injected so tests can
// control which turns are scanned without a real game clock.
func NewJanitor(store kvstore.Store, currentTurn func() uint32, lookbackTurns uint32) *Janitor {
	return &Janitor{Store: store, CurrentTurn: currentTurn, LookbackTurns: lookbackTurns}
}

// Start schedules the periodic scan every interval using
// gocron.NewScheduler()/sched.Start()/sched.NewJob(gocron.DurationJob(...)).
func (j *Janitor) Start(ctx context.Context, interval time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			j.scan(ctx)
		}),
	)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = sched.Shutdown()
	}()
	return nil
}

func (j *Janitor) scan(ctx context.Context) {
	current := j.CurrentTurn()
	for turn := current; turn > 0 && current-turn < j.LookbackTurns; turn-- {
		items, err := j.Store.Query(ctx, keyschema.PartitionFor(turn))
		if err != nil {
			log.Printf("[JANITOR] failed to scan turn %d: %v", turn, err)
			continue
		}
		if len(items) > 0 {
			log.Printf("⚠️  [JANITOR] turn %d has %d unpaired record(s) still outstanding", turn, len(items))
		}
	}
}
