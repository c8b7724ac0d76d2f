package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
	"github.com/stitts-dev/dfs-lineups/internal/models"
	"github.com/stitts-dev/dfs-lineups/pkg/database"
	"github.com/stitts-dev/dfs-lineups/pkg/logger"
)

var (
	ErrSlateNotFound    = errors.New("slate not found")
	ErrInvalidSlateName = errors.New("invalid slate name")
)

const importBatchSize = 200

// SlateService stores named player pools so searches can be rerun without
// re-uploading the CSV.
type SlateService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewSlateService(db *database.DB, log *logrus.Logger) *SlateService {
	if log == nil {
		log = logger.GetLogger()
	}
	return &SlateService{
		db:     db,
		logger: log,
	}
}

// Import replaces the stored pool for slate with players in one transaction.
func (s *SlateService) Import(ctx context.Context, slate string, players []lineup.Player) error {
	slate = strings.TrimSpace(slate)
	if slate == "" {
		return ErrInvalidSlateName
	}

	rows := make([]models.SlatePlayer, len(players))
	for i, p := range players {
		rows[i] = models.NewSlatePlayer(slate, p)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slate = ?", slate).Delete(&models.SlatePlayer{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, importBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to import slate %s: %w", slate, err)
	}

	logger.WithSlateContext(s.logger, slate).WithField("players", len(rows)).Info("Slate imported")
	return nil
}

// Load rebuilds the pool for slate under rules, in file order. A slate with
// no rows is reported as ErrSlateNotFound.
func (s *SlateService) Load(ctx context.Context, slate string, rules lineup.Rules) ([]lineup.Player, error) {
	var rows []models.SlatePlayer
	if err := s.db.WithContext(ctx).
		Where("slate = ?", slate).
		Order("row_number ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load slate %s: %w", slate, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSlateNotFound, slate)
	}

	players := make([]lineup.Player, 0, len(rows))
	for _, row := range rows {
		p, err := row.Player(rules)
		if err != nil {
			return nil, fmt.Errorf("slate %s: %w", slate, err)
		}
		players = append(players, p)
	}
	return players, nil
}

// List reports every stored slate with its size, ordered by name.
func (s *SlateService) List(ctx context.Context) ([]models.SlateSummary, error) {
	db := s.db.WithContext(ctx)

	var summaries []models.SlateSummary
	err := db.Model(&models.SlatePlayer{}).
		Select("slate, COUNT(*) AS players").
		Group("slate").
		Order("slate ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list slates: %w", err)
	}

	// An import writes every row of a slate at once, so the first row
	// carries the import time.
	for i := range summaries {
		var first models.SlatePlayer
		if err := db.Where("slate = ?", summaries[i].Slate).Order("row_number ASC").First(&first).Error; err != nil {
			return nil, fmt.Errorf("failed to list slates: %w", err)
		}
		summaries[i].ImportedAt = first.CreatedAt
	}
	return summaries, nil
}
