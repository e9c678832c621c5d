package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/backlot-social/backlot/internal/models"
	"github.com/backlot-social/backlot/pkg/logger"
)

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use standard logger
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
			LogLevel:                  gormLogger.Warn,        // Only log warnings or errors
			IgnoreRecordNotFoundError: true,                   // Suppress "record not found" errors
			Colorful:                  true,                   // Enable colorful logs
		},
	)
	// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey,
	// which we surface as models.ErrDuplicate. The storage constraint is the
	// actual duplicate-vote guarantee; application checks only fail fast.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(
		&models.Poll{}, &models.PollOption{},
		&models.Vote{}, &models.VoteReceipt{}, &models.MintJob{},
		&models.Milestone{}, &models.MilestoneContribution{},
		&models.ChatMessage{},
		&models.Episode{}, &models.BackstagePost{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicate
	}
	return err
}

func (db *PostgresDB) GetPoll(id string) (*models.Poll, error) {
	var poll models.Poll
	if err := db.Conn.Preload("Options").Where("id = ?", id).First(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %s", err)
	}

	return &poll, nil
}

func (db *PostgresDB) ListPolls(activeOnly bool) ([]*models.Poll, error) {
	var polls []*models.Poll
	query := db.Conn.Preload("Options").Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&polls).Error; err != nil {
		return nil, fmt.Errorf("failed to list polls: %s", err)
	}

	return polls, nil
}

func (db *PostgresDB) GetPollOption(id string) (*models.PollOption, error) {
	var option models.PollOption
	if err := db.Conn.Where("id = ?", id).First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get poll option: %s", err)
	}

	return &option, nil
}

func (db *PostgresDB) GetVoteByPollAndWallet(pollID, wallet string) (*models.Vote, error) {
	var vote models.Vote
	if err := db.Conn.Where("poll_id = ? AND wallet_address = ?", pollID, wallet).First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %s", err)
	}

	return &vote, nil
}

func (db *PostgresDB) GetVoteByTxSignature(txSignature string) (*models.Vote, error) {
	var vote models.Vote
	if err := db.Conn.Where("tx_signature = ?", txSignature).First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vote by tx signature: %s", err)
	}

	return &vote, nil
}

// RecordVote commits the vote, its counters, the receipt and the mint outbox
// row as a single transaction. The unique indexes on (poll_id, wallet_address)
// and tx_signature reject concurrent duplicates that slipped past the
// application-level check.
func (db *PostgresDB) RecordVote(vote *models.Vote, receipt *models.VoteReceipt, job *models.MintJob) error {
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PollOption{}).Where("id = ?", vote.OptionID).Updates(map[string]interface{}{
			"vote_count":     gorm.Expr("vote_count + ?", 1),
			"weighted_count": gorm.Expr("weighted_count + ?", vote.Weight),
		}).Error; err != nil {
			return err
		}
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if translated := translateErr(err); errors.Is(translated, models.ErrDuplicate) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("failed to record vote: %s", err)
	}
	return nil
}

func (db *PostgresDB) GetMilestone(id string) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := db.Conn.Where("id = ?", id).First(&milestone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get milestone: %s", err)
	}

	return &milestone, nil
}

func (db *PostgresDB) ListMilestones() ([]*models.Milestone, error) {
	var milestones []*models.Milestone
	if err := db.Conn.Order("sort_order ASC").Find(&milestones).Error; err != nil {
		return nil, fmt.Errorf("failed to list milestones: %s", err)
	}

	return milestones, nil
}

func (db *PostgresDB) GetContributionByTxSignature(txSignature string) (*models.MilestoneContribution, error) {
	var contribution models.MilestoneContribution
	if err := db.Conn.Where("tx_signature = ?", txSignature).First(&contribution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contribution: %s", err)
	}

	return &contribution, nil
}

// RecordContribution commits the contribution and the milestone total update
// as a single transaction; the unique tx_signature index rejects replays.
func (db *PostgresDB) RecordContribution(contribution *models.MilestoneContribution) error {
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(contribution).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Milestone{}).Where("id = ?", contribution.MilestoneID).
			Update("current_amount", gorm.Expr("current_amount + ?", contribution.Amount)).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if translated := translateErr(err); errors.Is(translated, models.ErrDuplicate) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("failed to record contribution: %s", err)
	}
	return nil
}

func (db *PostgresDB) ListVoteParticipation() ([]models.VoteParticipation, error) {
	var rows []models.VoteParticipation
	if err := db.Conn.Model(&models.Vote{}).Select("wallet_address", "poll_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list vote participation: %s", err)
	}

	return rows, nil
}

func (db *PostgresDB) ListChatWallets() ([]string, error) {
	var wallets []string
	if err := db.Conn.Model(&models.ChatMessage{}).Pluck("wallet_address", &wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat wallets: %s", err)
	}

	return wallets, nil
}

func (db *PostgresDB) ListReceiptWallets() ([]string, error) {
	var wallets []string
	if err := db.Conn.Model(&models.VoteReceipt{}).Pluck("wallet_address", &wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list receipt wallets: %s", err)
	}

	return wallets, nil
}

func (db *PostgresDB) CreateChatMessage(message *models.ChatMessage) error {
	if err := db.Conn.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %s", err)
	}

	return nil
}

func (db *PostgresDB) ListChatMessages(limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	if err := db.Conn.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %s", err)
	}

	return messages, nil
}

func (db *PostgresDB) ListEpisodes() ([]*models.Episode, error) {
	var episodes []*models.Episode
	if err := db.Conn.Order("created_at DESC").Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("failed to list episodes: %s", err)
	}

	return episodes, nil
}

func (db *PostgresDB) ListBackstagePosts() ([]*models.BackstagePost, error) {
	var posts []*models.BackstagePost
	if err := db.Conn.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list backstage posts: %s", err)
	}

	return posts, nil
}

func (db *PostgresDB) ListPendingMintJobs(limit int) ([]*models.MintJob, error) {
	var jobs []*models.MintJob
	if err := db.Conn.Where("status = ?", models.MintJobPending).Order("created_at ASC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending mint jobs: %s", err)
	}

	return jobs, nil
}

// MarkMintJobDone closes the job and stamps the receipt's mint reference.
// The receipt update is keyed on an empty mint_address so it happens at most once.
func (db *PostgresDB) MarkMintJobDone(jobID int64, mintAddress string) error {
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		var job models.MintJob
		if err := tx.Where("id = ?", jobID).First(&job).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MintJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
			"status":   models.MintJobDone,
			"attempts": gorm.Expr("attempts + ?", 1),
		}).Error; err != nil {
			return err
		}
		now := time.Now()
		if err := tx.Model(&models.VoteReceipt{}).
			Where("vote_id = ? AND (mint_address = '' OR mint_address = ?)", job.VoteID, "pending").
			Updates(map[string]interface{}{"mint_address": mintAddress, "minted_at": &now}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark mint job done: %s", err)
	}
	return nil
}

func (db *PostgresDB) MarkMintJobFailed(jobID int64, lastError string, terminal bool) error {
	updates := map[string]interface{}{
		"attempts":   gorm.Expr("attempts + ?", 1),
		"last_error": lastError,
	}
	if terminal {
		updates["status"] = models.MintJobFailed
	}
	if err := db.Conn.Model(&models.MintJob{}).Where("id = ?", jobID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to mark mint job failed: %s", err)
	}

	return nil
}
