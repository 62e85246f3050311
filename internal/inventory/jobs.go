package inventory

import (
	"context"
	"log"
	"time"
)

// JobProcessor runs the expiry sweep in the background
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SweepInterval time.Duration
	BatchSize     int
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval: 1 * time.Minute,
		BatchSize:     100,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts the expiry sweeper
func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("Starting inventory background jobs...")
	go jp.startExpirySweeper(ctx)
	log.Println("Inventory background jobs started")
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	log.Println("Stopping inventory background jobs...")
	close(jp.done)
	log.Println("Inventory background jobs stopped")
}

func (jp *JobProcessor) startExpirySweeper(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SweepInterval)
	defer ticker.Stop()

	log.Printf("Started hold expiry sweeper with %v interval", jp.config.SweepInterval)

	for {
		select {
		case <-ticker.C:
			jp.sweepExpiredHolds(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) sweepExpiredHolds(ctx context.Context) {
	released, err := jp.service.SweepExpired(ctx)
	if err != nil {
		log.Printf("Error sweeping expired holds: %v", err)
		return
	}
	if released > 0 {
		log.Printf("Expiry sweep released %d holds", released)
	}
}
