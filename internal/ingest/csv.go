// Package ingest turns tabular slate exports into validated players.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

// Row layout after the header: role, name, cost, game, projected points.
const (
	colRole = iota
	colName
	colCost
	colGame
	colProjected
	minColumns
)

var ErrMalformedRow = errors.New("malformed player row")

// Row is one raw slate record, before validation.
type Row struct {
	Position  string  `json:"position" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Salary    int     `json:"salary"`
	Game      string  `json:"game"`
	AvgPoints float64 `json:"avg_points"`
}

// ReadPlayers parses a slate export. The first row is a header and is
// skipped; every following row becomes a player whose id is its row number.
func ReadPlayers(r io.Reader, rules lineup.Rules) ([]lineup.Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var players []lineup.Player
	for idx := 0; ; idx++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", idx, err)
		}
		if idx == 0 {
			continue
		}

		row, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}
		player, err := row.Player(idx, rules)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}
		players = append(players, player)
	}
	return players, nil
}

// LoadFile opens path and reads it with ReadPlayers.
func LoadFile(path string, rules lineup.Rules) ([]lineup.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open slate file: %w", err)
	}
	defer f.Close()

	players, err := ReadPlayers(f, rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return players, nil
}

// Player validates the row and builds a player with the given id.
func (r Row) Player(id int, rules lineup.Rules) (lineup.Player, error) {
	return lineup.NewPlayer(id, r.Position, r.Name, r.Salary, r.Game, r.AvgPoints, rules.Eligibility)
}

// Players converts rows to players numbered from 1 in slice order.
func Players(rows []Row, rules lineup.Rules) ([]lineup.Player, error) {
	players := make([]lineup.Player, 0, len(rows))
	for i, row := range rows {
		player, err := row.Player(i+1, rules)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

func parseRecord(record []string) (Row, error) {
	if len(record) < minColumns {
		return Row{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, minColumns, len(record))
	}

	cost, err := strconv.Atoi(strings.TrimSpace(record[colCost]))
	if err != nil {
		return Row{}, fmt.Errorf("%w: cost %q is not an integer", ErrMalformedRow, record[colCost])
	}
	projected, err := strconv.ParseFloat(strings.TrimSpace(record[colProjected]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("%w: projected points %q is not a number", ErrMalformedRow, record[colProjected])
	}

	return Row{
		Position:  strings.TrimSpace(record[colRole]),
		Name:      strings.TrimSpace(record[colName]),
		Salary:    cost,
		Game:      strings.TrimSpace(record[colGame]),
		AvgPoints: projected,
	}, nil
}
