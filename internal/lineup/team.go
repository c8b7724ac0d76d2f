package lineup

import (
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// RejectReason explains why Add refused a player.
type RejectReason int

const (
	Accepted RejectReason = iota
	RejectOverCap
	RejectDuplicate
	RejectNoOpenSlot
)

func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectOverCap:
		return "over_cap"
	case RejectDuplicate:
		return "duplicate"
	case RejectNoOpenSlot:
		return "no_open_slot"
	default:
		return "unknown"
	}
}

// Outcome is the result of Team.Add: either the slot the player took or the
// reason it was rejected.
type Outcome struct {
	Slot   string
	Reason RejectReason
}

// Assigned reports whether the player was added.
func (o Outcome) Assigned() bool {
	return o.Reason == Accepted
}

// Assignment is one selected player and the slot it occupies.
type Assignment struct {
	Player *Player
	Slot   string
}

// Team is a partial lineup. Teams are persistent: Add never mutates the
// receiver, it returns a child node that shares the receiver as its parent,
// so sibling branches of a search can extend the same prefix independently.
type Team struct {
	rules  *Rules
	parent *Team
	player *Player
	slot   string

	open      uint64 // bit i set while rules.Roster[i] is unfilled
	remaining int
	points    float64
	depth     int

	// starved is sticky: once any prefix left too little salary per open
	// slot, every extension inherits it.
	starved bool
}

// NewTeam returns an empty lineup with the full roster open and the full
// salary cap available.
func NewTeam(rules Rules) *Team {
	r := rules
	t := &Team{
		rules:     &r,
		open:      r.fullMask(),
		remaining: r.SalaryCap,
	}
	t.starved = r.starved(t.remaining, len(r.Roster))
	return t
}

// Add tries to place p in the first slot of its eligibility tuple that is
// still open. On rejection the receiver is returned unchanged.
func (t *Team) Add(p *Player) (*Team, Outcome) {
	if p.Cost > t.remaining {
		return t, Outcome{Reason: RejectOverCap}
	}
	if t.Has(p.ID) {
		return t, Outcome{Reason: RejectDuplicate}
	}

	for _, slot := range p.Slots {
		pos, ok := t.openPosition(slot)
		if !ok {
			continue
		}
		child := &Team{
			rules:     t.rules,
			parent:    t,
			player:    p,
			slot:      slot,
			open:      t.open &^ (uint64(1) << uint(pos)),
			remaining: t.remaining - p.Cost,
			points:    t.points + p.ProjectedPoints,
			depth:     t.depth + 1,
		}
		child.starved = t.starved || t.rules.starved(child.remaining, bits.OnesCount64(child.open))
		return child, Outcome{Slot: slot}
	}

	return t, Outcome{Reason: RejectNoOpenSlot}
}

// openPosition finds the first unfilled roster position labelled slot.
func (t *Team) openPosition(slot string) (int, bool) {
	for mask := t.open; mask != 0; mask &= mask - 1 {
		pos := bits.TrailingZeros64(mask)
		if t.rules.Roster[pos] == slot {
			return pos, true
		}
	}
	return 0, false
}

// Has reports whether a player with id is already selected.
func (t *Team) Has(id int) bool {
	for n := t; n.parent != nil; n = n.parent {
		if n.player.ID == id {
			return true
		}
	}
	return false
}

// IsComplete is true once every roster slot is filled.
func (t *Team) IsComplete() bool {
	return t.open == 0
}

// IsFeasible reports whether the branch is still worth extending under policy.
func (t *Team) IsFeasible(policy Policy) bool {
	if t.remaining < 0 {
		return false
	}
	if policy == PolicyStrict && t.starved {
		return false
	}
	return true
}

// IsValid is true for a complete lineup that satisfies policy.
func (t *Team) IsValid(policy Policy) bool {
	return t.IsComplete() && t.IsFeasible(policy)
}

// NextSlot returns the first open slot in roster order.
func (t *Team) NextSlot() (string, bool) {
	if t.open == 0 {
		return "", false
	}
	return t.rules.Roster[bits.TrailingZeros64(t.open)], true
}

// RemainingSlots returns the open slots in roster order.
func (t *Team) RemainingSlots() []string {
	slots := make([]string, 0, bits.OnesCount64(t.open))
	for mask := t.open; mask != 0; mask &= mask - 1 {
		slots = append(slots, t.rules.Roster[bits.TrailingZeros64(mask)])
	}
	return slots
}

func (t *Team) RemainingSalary() int {
	return t.remaining
}

// Spend is the salary used so far.
func (t *Team) Spend() int {
	return t.rules.SalaryCap - t.remaining
}

func (t *Team) ProjectedPoints() float64 {
	return t.points
}

// Len is the number of selected players.
func (t *Team) Len() int {
	return t.depth
}

// Assignments returns the selected players in the order they were added.
func (t *Team) Assignments() []Assignment {
	out := make([]Assignment, t.depth)
	for n := t; n.parent != nil; n = n.parent {
		out[n.depth-1] = Assignment{Player: n.player, Slot: n.slot}
	}
	return out
}

// PlayerIDs returns the selected ids sorted ascending.
func (t *Team) PlayerIDs() []int {
	ids := make([]int, 0, t.depth)
	for n := t; n.parent != nil; n = n.parent {
		ids = append(ids, n.player.ID)
	}
	sort.Ints(ids)
	return ids
}

// Key identifies the lineup by its player set, independent of build order.
func (t *Team) Key() string {
	ids := t.PlayerIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (t *Team) String() string {
	assignments := t.Assignments()
	parts := make([]string, 0, len(assignments)+1)
	for _, a := range assignments {
		parts = append(parts, a.Player.Name)
	}
	parts = append(parts, strconv.FormatFloat(t.points, 'f', 2, 64))
	return strings.Join(parts, ", ")
}
