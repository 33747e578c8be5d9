// cmd/matchlambda is the production entrypoint: construct shared state
// once, hand a closure to the Lambda runtime that dispatches each
// invocation. The request's HTTP shape/auth and any downstream
// game-logic simulation are the caller's concern — this entrypoint only
// wires the two operational matchmaking inputs (end-turn and
// matchmake).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"turn-matchmaking-coordinator/internal/config"
	"turn-matchmaking-coordinator/internal/keyschema"
	"turn-matchmaking-coordinator/internal/kvstore"
	"turn-matchmaking-coordinator/internal/matchmaking"
	"turn-matchmaking-coordinator/internal/simqueue"
	"turn-matchmaking-coordinator/workers"
)

// state holds the dependencies constructed once per cold start and
// shared across every invocation.
type state struct {
	worker *workers.MatchmakingWorker
}

// request is the Lambda Function URL payload. Op selects which
// operation to run; the remaining fields are operation-specific.
type request struct {
	Op              string `json:"op"` // "end_turn" | "matchmake"
	TurnNumber      uint32 `json:"turn_number"`
	RunID           string `json:"run_id"`
	RandomComponent string `json:"random_component,omitempty"` // required for "matchmake"
}

type response struct {
	Status          string  `json:"status"`
	RunID           string  `json:"run_id,omitempty"`
	RandomComponent string  `json:"random_component,omitempty"`
	Opponent        string  `json:"opponent,omitempty"`
	Reason          *string `json:"reason,omitempty"`
	Error           string  `json:"error,omitempty"`
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	store, err := kvstore.NewDDBStore(ctx, kvstore.DDBStoreConfig{
		TableName:             cfg.TableName,
		PartitionKeyAttribute: cfg.PartitionKeyAttribute,
		SortKeyAttribute:      cfg.SortKeyAttribute,
		Region:                cfg.Region,
		Endpoint:              cfg.DynamoDBEndpoint,
	})
	if err != nil {
		log.Fatal("failed to initialize DynamoDB store:", err)
	}

	var enqueuer simqueue.Enqueuer = simqueue.NoopEnqueuer{}
	if cfg.SimulationQueueURL != "" {
		sqsEnqueuer, err := simqueue.NewSQSEnqueuer(ctx, cfg.SimulationQueueURL, cfg.Region)
		if err != nil {
			log.Fatal("failed to initialize simulation queue:", err)
		}
		enqueuer = sqsEnqueuer
	}

	s := &state{worker: workers.NewMatchmakingWorker(store, enqueuer)}

	lambda.Start(func(ctx context.Context, raw json.RawMessage) (response, error) {
		return entrypoint(ctx, s, raw)
	})
}

func entrypoint(ctx context.Context, s *state, raw json.RawMessage) (response, error) {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		return response{Status: "error", Error: fmt.Sprintf("invalid request: %v", err)}, nil
	}

	switch req.Op {
	case "end_turn":
		skey, err := matchmaking.EndTurn(ctx, s.worker.Store, req.TurnNumber, req.RunID)
		if err != nil {
			return response{Status: "error", Error: err.Error()}, nil
		}
		return response{Status: "registered", RunID: skey.RunID, RandomComponent: skey.RandomComponent}, nil

	case "matchmake":
		if req.RandomComponent == "" {
			return response{Status: "error", Error: "random_component is required for matchmake"}, nil
		}
		asyncReq := matchmaking.AsyncRequest{
			TurnNumber: req.TurnNumber,
			Skey:       keyschema.Skey{RandomComponent: req.RandomComponent, RunID: req.RunID},
		}
		result, err := s.worker.Run(ctx, asyncReq)
		if err != nil {
			return response{Status: "error", Error: err.Error()}, nil
		}
		return resultToResponse(result), nil

	default:
		return response{Status: "error", Error: fmt.Sprintf("unknown op %q", req.Op)}, nil
	}
}

func resultToResponse(result matchmaking.Result) response {
	switch result.Kind {
	case matchmaking.ResultMatched:
		return response{Status: "matched", Opponent: result.Opponent.RunID}
	case matchmaking.ResultCanDrop:
		return response{Status: "can_drop"}
	default:
		return response{Status: "fake_simulate", Reason: result.DegradedReason}
	}
}
