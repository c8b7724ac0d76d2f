package lineup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Policy selects how lineup validity is judged.
type Policy int

const (
	// PolicyStrict abandons a branch as soon as the salary left per open slot
	// drops below the minimum average.
	PolicyStrict Policy = iota
	// PolicyRelaxed only requires the lineup to fit under the cap.
	PolicyRelaxed
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyRelaxed:
		return "relaxed"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts "strict" or "relaxed", case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return PolicyStrict, nil
	case "relaxed":
		return PolicyRelaxed, nil
	}
	return 0, fmt.Errorf("unknown validity policy %q", s)
}

func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Policy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Strategy selects how the engine branches at each depth.
type Strategy int

const (
	// StrategyIndexed fills the next open slot from the player index.
	StrategyIndexed Strategy = iota
	// StrategyUnindexed tries every pool player at every depth.
	StrategyUnindexed
)

func (s Strategy) String() string {
	switch s {
	case StrategyIndexed:
		return "indexed"
	case StrategyUnindexed:
		return "unindexed"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy accepts "indexed" or "unindexed", case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "indexed", "":
		return StrategyIndexed, nil
	case "unindexed":
		return StrategyUnindexed, nil
	}
	return 0, fmt.Errorf("unknown search strategy %q", s)
}

func (s Strategy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Strategy) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStrategy(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
