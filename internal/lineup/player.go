package lineup

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidProjection = errors.New("projected points must be a positive finite number")
	ErrNegativeCost      = errors.New("cost must not be negative")
	ErrUnknownRole       = errors.New("role has no eligible slots")
)

// Player is one candidate in the pool. Players are immutable once built.
type Player struct {
	ID              int      `json:"id"`
	Role            string   `json:"position"`
	Name            string   `json:"name"`
	Cost            int      `json:"salary"`
	Game            string   `json:"game"`
	ProjectedPoints float64  `json:"avg_points"`
	Value           float64  `json:"value"`
	Score           float64  `json:"score"`
	Slots           []string `json:"slots"`
}

// NewPlayer validates a parsed record and derives its value metrics.
func NewPlayer(id int, role, name string, cost int, game string, projected float64, table EligibilityTable) (Player, error) {
	if math.IsNaN(projected) || math.IsInf(projected, 0) || projected <= 0 {
		return Player{}, fmt.Errorf("player %d (%s): %w, got %v", id, name, ErrInvalidProjection, projected)
	}
	if cost < 0 {
		return Player{}, fmt.Errorf("player %d (%s): %w, got %d", id, name, ErrNegativeCost, cost)
	}
	slots, ok := table.Slots(role)
	if !ok || len(slots) == 0 {
		return Player{}, fmt.Errorf("player %d (%s): %w: %q", id, name, ErrUnknownRole, role)
	}

	value := float64(cost) / projected
	return Player{
		ID:              id,
		Role:            role,
		Name:            name,
		Cost:            cost,
		Game:            game,
		ProjectedPoints: projected,
		Value:           value,
		Score:           value * projected,
		Slots:           append([]string(nil), slots...),
	}, nil
}

// CanFill reports whether slot is in the player's eligibility tuple.
func (p *Player) CanFill(slot string) bool {
	for _, s := range p.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%s $%d %.2f)", p.Name, p.Role, p.Cost, p.ProjectedPoints)
}
