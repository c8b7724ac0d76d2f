package lineup

import (
	"errors"
	"fmt"
	"sort"
)

// MaxRosterSlots is the largest roster a Team can track.
const MaxRosterSlots = 64

var ErrInvalidRules = errors.New("invalid lineup rules")

// EligibilityTable maps a player's primary role to the roster slots it may
// fill, most specific first.
type EligibilityTable map[string][]string

// Slots returns the eligibility tuple for a role.
func (t EligibilityTable) Slots(role string) ([]string, bool) {
	slots, ok := t[role]
	return slots, ok
}

// Roles returns the table's roles in sorted order.
func (t EligibilityTable) Roles() []string {
	roles := make([]string, 0, len(t))
	for role := range t {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Clone returns a deep copy so callers cannot mutate a shared table.
func (t EligibilityTable) Clone() EligibilityTable {
	out := make(EligibilityTable, len(t))
	for role, slots := range t {
		out[role] = append([]string(nil), slots...)
	}
	return out
}

// Rules is the immutable configuration every search runs against.
type Rules struct {
	Roster           []string         `json:"roster"`
	SalaryCap        int              `json:"salary_cap"`
	MinAverageSalary int              `json:"min_average_salary"`
	Eligibility      EligibilityTable `json:"eligibility"`
}

// DraftKingsNBA returns the classic eight-man DraftKings basketball rules.
func DraftKingsNBA() Rules {
	return Rules{
		// Concrete positions first, flex positions last
		Roster:           []string{"PG", "SG", "SF", "PF", "C", "G", "F", "Util"},
		SalaryCap:        50000,
		MinAverageSalary: 3000,
		Eligibility: EligibilityTable{
			"PG": {"PG", "G", "Util"},
			"SG": {"SG", "G", "Util"},
			"SF": {"SF", "F", "Util"},
			"PF": {"PF", "F", "Util"},
			"C":  {"C", "Util"},
		},
	}
}

// Validate checks that the rules describe a searchable roster.
func (r Rules) Validate() error {
	if len(r.Roster) == 0 {
		return fmt.Errorf("%w: roster requirement is empty", ErrInvalidRules)
	}
	if len(r.Roster) > MaxRosterSlots {
		return fmt.Errorf("%w: roster has %d slots, at most %d supported", ErrInvalidRules, len(r.Roster), MaxRosterSlots)
	}
	if r.SalaryCap <= 0 {
		return fmt.Errorf("%w: salary cap must be positive, got %d", ErrInvalidRules, r.SalaryCap)
	}
	if r.MinAverageSalary < 0 {
		return fmt.Errorf("%w: minimum average salary must not be negative, got %d", ErrInvalidRules, r.MinAverageSalary)
	}
	if len(r.Eligibility) == 0 {
		return fmt.Errorf("%w: eligibility table is empty", ErrInvalidRules)
	}

	inRoster := make(map[string]bool, len(r.Roster))
	for _, slot := range r.Roster {
		inRoster[slot] = true
	}

	fillable := make(map[string]bool, len(r.Roster))
	for _, role := range r.Eligibility.Roles() {
		slots := r.Eligibility[role]
		if len(slots) == 0 {
			return fmt.Errorf("%w: role %s has no eligible slots", ErrInvalidRules, role)
		}
		for _, slot := range slots {
			if !inRoster[slot] {
				return fmt.Errorf("%w: role %s lists slot %s which is not in the roster", ErrInvalidRules, role, slot)
			}
			fillable[slot] = true
		}
	}

	for _, slot := range r.Roster {
		if !fillable[slot] {
			return fmt.Errorf("%w: no role can fill slot %s", ErrInvalidRules, slot)
		}
	}
	return nil
}

// fullMask has one bit set per roster position.
func (r Rules) fullMask() uint64 {
	if len(r.Roster) == MaxRosterSlots {
		return ^uint64(0)
	}
	return (uint64(1) << uint(len(r.Roster))) - 1
}

// starved reports whether the salary left cannot keep the average spend per
// open slot at the configured minimum.
func (r Rules) starved(remainingSalary, openSlots int) bool {
	if openSlots == 0 {
		return false
	}
	return remainingSalary < r.MinAverageSalary*openSlots
}
