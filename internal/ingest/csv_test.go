package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/dfs-lineups/internal/lineup"
)

func TestReadPlayers_SingleRow(t *testing.T) {
	input := "Position,Name,Salary,GameInfo,AvgPointsPerGame\nPG,John Doe,4000,Game1,25.5\n"

	players, err := ReadPlayers(strings.NewReader(input), lineup.DraftKingsNBA())
	require.NoError(t, err)
	require.Len(t, players, 1)

	p := players[0]
	assert.Equal(t, 1, p.ID, "ids follow the file row index")
	assert.Equal(t, "PG", p.Role)
	assert.Equal(t, "John Doe", p.Name)
	assert.Equal(t, 4000, p.Cost)
	assert.Equal(t, "Game1", p.Game)
	assert.InDelta(t, 25.5, p.ProjectedPoints, 1e-9)
	assert.InDelta(t, 156.86, p.Value, 0.01)
	assert.InDelta(t, 4000.0, p.Score, 1e-9)
	assert.Equal(t, []string{"PG", "G", "Util"}, p.Slots)
}

func TestReadPlayers_HeaderOnly(t *testing.T) {
	players, err := ReadPlayers(strings.NewReader("Position,Name,Salary,GameInfo,AvgPointsPerGame\n"), lineup.DraftKingsNBA())
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestReadPlayers_Errors(t *testing.T) {
	header := "Position,Name,Salary,GameInfo,AvgPointsPerGame\n"
	tests := []struct {
		name    string
		row     string
		wantErr error
	}{
		{"too few fields", "PG,John Doe,4000\n", ErrMalformedRow},
		{"cost not integer", "PG,John Doe,4000.5,Game1,25.5\n", ErrMalformedRow},
		{"projection not number", "PG,John Doe,4000,Game1,lots\n", ErrMalformedRow},
		{"zero projection", "PG,John Doe,4000,Game1,0\n", lineup.ErrInvalidProjection},
		{"NaN projection", "PG,John Doe,4000,Game1,NaN\n", lineup.ErrInvalidProjection},
		{"infinite projection", "PG,John Doe,4000,Game1,Inf\n", lineup.ErrInvalidProjection},
		{"negative cost", "PG,John Doe,-1,Game1,10\n", lineup.ErrNegativeCost},
		{"unknown role", "QB,John Doe,4000,Game1,10\n", lineup.ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPlayers(strings.NewReader(header+tt.row), lineup.DraftKingsNBA())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "row 1")
		})
	}
}

func TestReadPlayers_ExtraColumnsIgnored(t *testing.T) {
	input := "Position,Name,Salary,GameInfo,AvgPointsPerGame,Team\n C , Cal Center , 7000 ,Game3, 36.4 ,DEN\n"

	players, err := ReadPlayers(strings.NewReader(input), lineup.DraftKingsNBA())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "C", players[0].Role)
	assert.Equal(t, "Cal Center", players[0].Name)
	assert.Equal(t, 7000, players[0].Cost)
}

func TestLoadFile(t *testing.T) {
	players, err := LoadFile("testdata/slate.csv", lineup.DraftKingsNBA())
	require.NoError(t, err)
	require.Len(t, players, 10)

	for i, p := range players {
		assert.Equal(t, i+1, p.ID)
		assert.InDelta(t, float64(p.Cost), p.Value*p.ProjectedPoints, 1e-6)
	}
	assert.Equal(t, "Moe Muscle", players[9].Name)
}

func TestLoadFile_Malformed(t *testing.T) {
	_, err := LoadFile("testdata/malformed.csv", lineup.DraftKingsNBA())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.csv", lineup.DraftKingsNBA())
	assert.Error(t, err)
}

func TestPlayers(t *testing.T) {
	rows := []Row{
		{Position: "PG", Name: "A", Salary: 4000, Game: "G1", AvgPoints: 20},
		{Position: "C", Name: "B", Salary: 5000, Game: "G1", AvgPoints: 25},
	}

	players, err := Players(rows, lineup.DraftKingsNBA())
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, 1, players[0].ID)
	assert.Equal(t, 2, players[1].ID)
	assert.Equal(t, []string{"C", "Util"}, players[1].Slots)

	rows = append(rows, Row{Position: "PG", Name: "C", Salary: 4000, AvgPoints: -3})
	_, err = Players(rows, lineup.DraftKingsNBA())
	assert.ErrorIs(t, err, lineup.ErrInvalidProjection)
}
