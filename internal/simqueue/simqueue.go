// Package simqueue wraps the producer side of the simulation-task queue.
// The core only owns enqueueing a task after a matchmaking decision; the
// consumer that actually runs the game simulation lives elsewhere.
package simqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Task is the envelope handed to the downstream simulation consumer.
// OpponentID is nil for a fake-simulate task — the consumer is expected to
// synthesize an opponent in that case.
type Task struct {
	TurnNumber uint32  `json:"turn_number"`
	RunID      string  `json:"run_id"`
	OpponentID *string `json:"opponent_run_id,omitempty"`
	FakeReason *string `json:"fake_reason,omitempty"`
}

// Enqueuer is the capability the Driver's production wiring depends on.
type Enqueuer interface {
	Enqueue(ctx context.Context, task Task) error
}

// SQSEnqueuer sends Task envelopes to an SQS queue.
type SQSEnqueuer struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSEnqueuer loads AWS config and constructs an SQS client.
func NewSQSEnqueuer(ctx context.Context, queueURL, region string) (*SQSEnqueuer, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("simqueue: failed to load AWS config: %w", err)
	}
	return &SQSEnqueuer{
		client:   sqs.NewFromConfig(awsCfg),
		queueURL: queueURL,
	}, nil
}

// Enqueue implements Enqueuer.
func (e *SQSEnqueuer) Enqueue(ctx context.Context, task Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("simqueue: failed to marshal task: %w", err)
	}
	_, err = e.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(e.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("simqueue: failed to enqueue task: %w", err)
	}
	return nil
}

// NoopEnqueuer logs the task instead of sending it anywhere — used when
// no SimulationQueueURL is configured (local development).
type NoopEnqueuer struct{}

// Enqueue implements Enqueuer.
func (NoopEnqueuer) Enqueue(ctx context.Context, task Task) error {
	log.Printf("[SIMQUEUE] no queue configured, dropping task: turn=%d run_id=%s", task.TurnNumber, task.RunID)
	return nil
}
