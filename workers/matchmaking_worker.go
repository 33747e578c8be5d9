// workers/matchmaking_worker.go wires the matchmaking driver to a live
// store and the simulation-task queue. It drives a single matchmaking
// attempt per invocation, with context-based cancellation, rather than
// polling on its own ticker.
package workers

import (
	"context"
	"log"

	"turn-matchmaking-coordinator/internal/kvstore"
	"turn-matchmaking-coordinator/internal/matchmaking"
	"turn-matchmaking-coordinator/internal/simqueue"
)

// MatchmakingWorker drives a single AttemptMatchmaking call and enqueues
// the resulting simulation task. One Run call corresponds to one
// AsyncRequest — the Lambda entrypoint and the HTTP server each
// construct one worker at startup and call Run once per request rather
// than running a background loop; the caller controls invocation rate.
type MatchmakingWorker struct {
	Store    kvstore.Store
	Enqueuer simqueue.Enqueuer
}

// NewMatchmakingWorker constructs a MatchmakingWorker.
func NewMatchmakingWorker(store kvstore.Store, enqueuer simqueue.Enqueuer) *MatchmakingWorker {
	return &MatchmakingWorker{Store: store, Enqueuer: enqueuer}
}

// Run attempts matchmaking for request and enqueues the simulation task
// implied by the result. It never retries — a transient fault degrades
// to a logged FakeSimulate task.
func (w *MatchmakingWorker) Run(ctx context.Context, request matchmaking.AsyncRequest) (matchmaking.Result, error) {
	result, err := matchmaking.AttemptMatchmaking(ctx, w.Store, request, matchmaking.ProductionListFunc(w.Store))
	if err != nil {
		log.Printf("[MATCHMAKING] listing failed for turn %d run_id %s: %v", request.TurnNumber, request.Skey.RunID, err)
		return matchmaking.Result{}, err
	}

	task := simqueue.Task{TurnNumber: request.TurnNumber, RunID: request.Skey.RunID}
	switch result.Kind {
	case matchmaking.ResultMatched:
		opponent := result.Opponent.RunID
		task.OpponentID = &opponent
		log.Printf("[MATCHMAKING] matched turn=%d run_id=%s opponent=%s", request.TurnNumber, request.Skey.RunID, opponent)
	case matchmaking.ResultCanDrop:
		log.Printf("[MATCHMAKING] can drop turn=%d run_id=%s (already paired)", request.TurnNumber, request.Skey.RunID)
		return result, nil
	case matchmaking.ResultFakeSimulate:
		task.FakeReason = result.DegradedReason
		if result.DegradedReason != nil {
			log.Printf("❌ [MATCHMAKING] degraded fake-simulate turn=%d run_id=%s: %s", request.TurnNumber, request.Skey.RunID, *result.DegradedReason)
		} else {
			log.Printf("[MATCHMAKING] empty-pool fake-simulate turn=%d run_id=%s", request.TurnNumber, request.Skey.RunID)
		}
	}

	if err := w.Enqueuer.Enqueue(ctx, task); err != nil {
		log.Printf("❌ [MATCHMAKING] failed to enqueue simulation task turn=%d run_id=%s: %v", request.TurnNumber, request.Skey.RunID, err)
	}

	return result, nil
}
