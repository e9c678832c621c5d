package minter

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

// drainBatchSize bounds how many outbox rows one tick processes
const drainBatchSize = 20

// Worker drains the mint outbox. Votes enqueue jobs transactionally; this
// worker retries them with its own policy so the mint side effect is
// observable instead of a dangling network call. Its failures never touch
// vote state.
type Worker struct {
	logger *logger.Logger
	config *config.Config

	repo    models.Repository
	service models.MintService

	stop chan struct{}
	done chan struct{}
}

func NewWorker(repo models.Repository, service models.MintService, logger *logger.Logger, cfg *config.Config) *Worker {
	return &Worker{
		logger:  logger,
		config:  cfg,
		repo:    repo,
		service: service,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the drain loop.
func (w *Worker) Start() {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.config.MintOutboxInterval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.safeDrain()
			}
		}
	}()
}

// Stop shuts the drain loop down and waits for the current tick to finish.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

// safeDrain runs one drain pass with panic recovery
func (w *Worker) safeDrain() {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Mint outbox drain panicked ", "panic ", r, "stack ", string(debug.Stack()))
		}
	}()
	w.drain()
}

func (w *Worker) drain() {
	jobs, err := w.repo.ListPendingMintJobs(drainBatchSize)
	if err != nil {
		w.logger.Error("Failed to list pending mint jobs ", "error ", err)
		return
	}

	for _, job := range jobs {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		mintAddress, err := w.service.MintReceipt(ctx, job)
		cancel()

		switch {
		case err != nil:
			terminal := job.Attempts+1 >= w.config.MintMaxAttempts
			w.logger.Error("Failed to mint receipt ", "vote ", job.VoteID, "error ", err, "terminal ", terminal)
			if markErr := w.repo.MarkMintJobFailed(job.ID, err.Error(), terminal); markErr != nil {
				w.logger.Error("Failed to update mint job ", "job ", job.ID, "error ", markErr)
			}
		case mintAddress == "":
			// Service reported pending; leave the job for a later tick
			w.logger.Debug("Mint still pending ", "vote ", job.VoteID)
			if markErr := w.repo.MarkMintJobFailed(job.ID, "mint pending", job.Attempts+1 >= w.config.MintMaxAttempts); markErr != nil {
				w.logger.Error("Failed to update mint job ", "job ", job.ID, "error ", markErr)
			}
		default:
			w.logger.Info("Receipt minted ", "vote ", job.VoteID, "mint ", mintAddress)
			if markErr := w.repo.MarkMintJobDone(job.ID, mintAddress); markErr != nil {
				w.logger.Error("Failed to close mint job ", "job ", job.ID, "error ", markErr)
			}
		}
	}
}
