package models

import (
	"time"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

// SlatePlayer is one imported pool row. RowNumber is the 1-based row in the
// source file and doubles as the player id in searches.
type SlatePlayer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Slate     string    `json:"slate" gorm:"uniqueIndex:idx_slate_row;size:100;not null"`
	RowNumber int       `json:"row_number" gorm:"uniqueIndex:idx_slate_row;not null"`
	Position  string    `json:"position" gorm:"size:20;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Salary    int       `json:"salary" gorm:"not null"`
	Game      string    `json:"game" gorm:"size:100"`
	AvgPoints float64   `json:"avg_points" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSlatePlayer captures a pool player for storage.
func NewSlatePlayer(slate string, p lineup.Player) SlatePlayer {
	return SlatePlayer{
		Slate:     slate,
		RowNumber: p.ID,
		Position:  p.Role,
		Name:      p.Name,
		Salary:    p.Cost,
		Game:      p.Game,
		AvgPoints: p.ProjectedPoints,
	}
}

// Player rebuilds the pool player under the given contest rules.
func (sp SlatePlayer) Player(rules lineup.Rules) (lineup.Player, error) {
	return lineup.NewPlayer(sp.RowNumber, sp.Position, sp.Name, sp.Salary, sp.Game, sp.AvgPoints, rules.Eligibility)
}

// SlateSummary is one row of the slate listing.
type SlateSummary struct {
	Slate      string    `json:"slate"`
	Players    int       `json:"players"`
	ImportedAt time.Time `json:"imported_at" gorm:"-"`
}
