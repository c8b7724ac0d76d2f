package lineup

import "sort"

// PlayerIndex groups players under every slot they are eligible for. It is
// read-only after construction and safe for concurrent use.
type PlayerIndex struct {
	bySlot    map[string][]*Player
	salaryCap int
}

// NewPlayerIndex indexes players in the order given.
func NewPlayerIndex(rules Rules, players []*Player) *PlayerIndex {
	idx := &PlayerIndex{
		bySlot:    make(map[string][]*Player),
		salaryCap: rules.SalaryCap,
	}
	for _, p := range players {
		for _, slot := range p.Slots {
			idx.bySlot[slot] = append(idx.bySlot[slot], p)
		}
	}
	return idx
}

// Find returns the players for slot whose cost fits under the salary cap.
func (idx *PlayerIndex) Find(slot string) []*Player {
	return idx.FindAffordable(slot, idx.salaryCap)
}

// FindAffordable returns the players for slot costing at most maxCost, in
// insertion order.
func (idx *PlayerIndex) FindAffordable(slot string, maxCost int) []*Player {
	entries := idx.bySlot[slot]
	out := make([]*Player, 0, len(entries))
	for _, p := range entries {
		if p.Cost <= maxCost {
			out = append(out, p)
		}
	}
	return out
}

// Size returns how many players are indexed under slot.
func (idx *PlayerIndex) Size(slot string) int {
	return len(idx.bySlot[slot])
}

// Slots returns every indexed slot label, sorted.
func (idx *PlayerIndex) Slots() []string {
	slots := make([]string, 0, len(idx.bySlot))
	for slot := range idx.bySlot {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}
