package lineup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func nbaPlayer(t testing.TB, id int, role string, cost int, points float64) Player {
	t.Helper()
	p, err := NewPlayer(id, role, fmt.Sprintf("%s-%d", role, id), cost, "Game1", points, DraftKingsNBA().Eligibility)
	require.NoError(t, err)
	return p
}

// onePerSlotPool fills each DraftKings slot with exactly one candidate.
func onePerSlotPool(t testing.TB, cost int) []Player {
	t.Helper()
	roles := []string{"PG", "SG", "SF", "PF", "C", "PG", "SF", "C"}
	players := make([]Player, len(roles))
	for i, role := range roles {
		players[i] = nbaPlayer(t, i+1, role, cost, 20+float64(i))
	}
	return players
}

// mixedPool has nine players whose combined salary is exactly the cap.
func mixedPool(t testing.TB) []Player {
	t.Helper()
	return []Player{
		nbaPlayer(t, 1, "PG", 7000, 40),
		nbaPlayer(t, 2, "SG", 6000, 35),
		nbaPlayer(t, 3, "SF", 6500, 38),
		nbaPlayer(t, 4, "PF", 5500, 30),
		nbaPlayer(t, 5, "C", 8000, 45),
		nbaPlayer(t, 6, "PG", 4500, 25),
		nbaPlayer(t, 7, "SF", 5000, 28),
		nbaPlayer(t, 8, "C", 4000, 22),
		nbaPlayer(t, 9, "SG", 3500, 18),
	}
}

func pointers(players []Player) []*Player {
	out := make([]*Player, len(players))
	for i := range players {
		out[i] = &players[i]
	}
	return out
}
