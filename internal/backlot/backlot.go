package backlot

import (
	"context"
	"errors"

	"github.com/backlot-social/backlot/internal/config"
	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

// Backlot is the main struct for the Backlot application.
// It contains all the necessary components to run the application
// and serves all business logic.
type Backlot struct {
	logger *logger.Logger
	config *config.Config

	repo  models.Repository
	chain models.ChainService
}

// NewBacklot creates a new Backlot instance
func NewBacklot(
	repo models.Repository,
	chain models.ChainService,
	logger *logger.Logger,
	config *config.Config,
) models.BacklotI {
	return &Backlot{
		repo:   repo,
		chain:  chain,
		logger: logger,
		config: config,
	}
}

// ListPolls returns all active polls with their options.
func (b *Backlot) ListPolls(ctx context.Context) ([]*models.Poll, error) {
	polls, err := b.repo.ListPolls(true)
	if err != nil {
		b.logger.Error("Failed to list polls ", "error ", err)
		return nil, err
	}
	return polls, nil
}

func (b *Backlot) GetPoll(ctx context.Context, id string) (*models.Poll, error) {
	poll, err := b.repo.GetPoll(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewVerifyError(models.CodeNotFound, "Poll not found")
		}
		return nil, err
	}
	return poll, nil
}

func (b *Backlot) ListMilestones(ctx context.Context) ([]*models.Milestone, error) {
	milestones, err := b.repo.ListMilestones()
	if err != nil {
		b.logger.Error("Failed to list milestones ", "error ", err)
		return nil, err
	}
	return milestones, nil
}

func (b *Backlot) ListEpisodes(ctx context.Context) ([]*models.Episode, error) {
	episodes, err := b.repo.ListEpisodes()
	if err != nil {
		b.logger.Error("Failed to list episodes ", "error ", err)
		return nil, err
	}
	return episodes, nil
}

func (b *Backlot) ListBackstagePosts(ctx context.Context) ([]*models.BackstagePost, error) {
	posts, err := b.repo.ListBackstagePosts()
	if err != nil {
		b.logger.Error("Failed to list backstage posts ", "error ", err)
		return nil, err
	}
	return posts, nil
}

func (b *Backlot) ListChatMessages(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	messages, err := b.repo.ListChatMessages(limit)
	if err != nil {
		b.logger.Error("Failed to list chat messages ", "error ", err)
		return nil, err
	}
	return messages, nil
}
