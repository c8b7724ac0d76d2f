package lineup

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/dfs-lineups/pkg/logger"
)

// ctxCheckInterval is how many expanded nodes pass between context checks.
const ctxCheckInterval = 256

var (
	ErrInvalidOptions    = errors.New("invalid search options")
	ErrDuplicatePlayerID = errors.New("duplicate player id in pool")
)

// StopReason says why a search ended before exhausting its space.
type StopReason string

const (
	StopNone       StopReason = ""
	StopDeadline   StopReason = "deadline"
	StopCanceled   StopReason = "canceled"
	StopNodeBudget StopReason = "node_budget"
)

// Options tune a single search run.
type Options struct {
	Policy     Policy        `json:"policy"`
	Strategy   Strategy      `json:"strategy"`
	Workers    int           `json:"workers"`
	Timeout    time.Duration `json:"timeout"`
	NodeBudget int64         `json:"node_budget"`
	Dedup      bool          `json:"dedup"`
	// MaxLineups caps how many ranked lineups are reported. The search
	// itself is not limited by it.
	MaxLineups int `json:"max_lineups"`

	Progress func(ProgressUpdate) `json:"-"`
}

// DefaultOptions searches the slot index under the strict policy with
// duplicate player sets collapsed.
func DefaultOptions() Options {
	return Options{
		Policy:   PolicyStrict,
		Strategy: StrategyIndexed,
		Dedup:    true,
	}
}

func (o Options) validate() error {
	switch o.Policy {
	case PolicyStrict, PolicyRelaxed:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.Policy)
	}
	switch o.Strategy {
	case StrategyIndexed, StrategyUnindexed:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOptions, o.Strategy)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidOptions)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidOptions)
	}
	if o.NodeBudget < 0 {
		return fmt.Errorf("%w: node budget must not be negative", ErrInvalidOptions)
	}
	if o.MaxLineups < 0 {
		return fmt.Errorf("%w: max lineups must not be negative", ErrInvalidOptions)
	}
	return nil
}

// ProgressUpdate is reported after each top-level branch finishes.
type ProgressUpdate struct {
	SearchID      string  `json:"search_id"`
	BranchesDone  int     `json:"branches_done"`
	BranchesTotal int     `json:"branches_total"`
	LineupsFound  int     `json:"lineups_found"`
	NodesExpanded int64   `json:"nodes_expanded"`
	Progress      float64 `json:"progress"`
}

// LineupPlayer is one filled slot of a reported lineup.
type LineupPlayer struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Role            string  `json:"position"`
	Slot            string  `json:"slot"`
	Cost            int     `json:"salary"`
	Game            string  `json:"game"`
	ProjectedPoints float64 `json:"projected_points"`
}

// Lineup is a complete, valid roster produced by a search.
type Lineup struct {
	Key             string         `json:"key"`
	Players         []LineupPlayer `json:"players"`
	TotalSalary     int            `json:"total_salary"`
	RemainingSalary int            `json:"remaining_salary"`
	ProjectedPoints float64        `json:"projected_points"`

	// path holds the pool positions in build order; it orders duplicates.
	path []int
}

// PlayerIDs returns the lineup's ids in slot order.
func (l Lineup) PlayerIDs() []int {
	ids := make([]int, len(l.Players))
	for i, p := range l.Players {
		ids[i] = p.ID
	}
	return ids
}

// Result is the structured outcome of a search.
type Result struct {
	SearchID      string     `json:"search_id"`
	Strategy      Strategy   `json:"strategy"`
	Policy        Policy     `json:"policy"`
	Lineups       []Lineup   `json:"lineups"`
	Summary       Summary    `json:"summary"`
	NodesExpanded int64      `json:"nodes_expanded"`
	ElapsedMs     int64      `json:"elapsed_ms"`
	Truncated     bool       `json:"truncated"`
	StopReason    StopReason `json:"stop_reason,omitempty"`
}

// Engine enumerates valid lineups for a fixed set of rules.
type Engine struct {
	rules  Rules
	opts   Options
	logger *logrus.Logger
}

// NewEngine validates rules and options. A nil logger uses the global one.
func NewEngine(rules Rules, opts Options, log *logrus.Logger) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{
		rules:  Rules{Roster: append([]string(nil), rules.Roster...), SalaryCap: rules.SalaryCap, MinAverageSalary: rules.MinAverageSalary, Eligibility: rules.Eligibility.Clone()},
		opts:   opts,
		logger: log,
	}, nil
}

func (e *Engine) Rules() Rules {
	return e.rules
}

func (e *Engine) Options() Options {
	return e.opts
}

// search holds the shared state of one Search call. Everything except the
// stop flags, the node counter and the guarded result set is read-only.
type search struct {
	engine    *Engine
	ctx       context.Context
	pool      []*Player
	positions map[int]int
	index     *PlayerIndex

	nodes  atomic.Int64
	halted atomic.Bool
	reason atomic.Value // StopReason

	mu       sync.Mutex
	found    []*Team
	byKey    map[string]int
	done     int
	searchID string
}

// Search enumerates every valid lineup reachable from players. The pool is
// not modified. Cancelling ctx or exceeding the configured timeout or node
// budget returns the lineups found so far with Truncated set.
func (e *Engine) Search(ctx context.Context, players []Player) (*Result, error) {
	searchID := uuid.New().String()
	startTime := time.Now()
	log := logger.WithSearchContext(e.logger, searchID, e.opts.Strategy.String(), e.opts.Policy.String())

	pool, err := preparePool(players)
	if err != nil {
		return nil, err
	}

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	s := &search{
		engine:    e,
		ctx:       ctx,
		pool:      pool,
		positions: make(map[int]int, len(pool)),
		index:     NewPlayerIndex(e.rules, pool),
		byKey:     make(map[string]int),
		searchID:  searchID,
	}
	for i, p := range pool {
		s.positions[p.ID] = i
	}

	log.WithFields(logrus.Fields{
		"total_players": len(pool),
		"salary_cap":    e.rules.SalaryCap,
		"roster_slots":  len(e.rules.Roster),
		"min_avg":       e.rules.MinAverageSalary,
	}).Info("Starting lineup search")

	roots := s.roots()
	log.WithField("branches", len(roots)).Debug("Top-level branches prepared")

	s.run(roots)

	lineups := s.lineups()
	Rank(lineups)
	summary := Summarize(lineups)
	if e.opts.MaxLineups > 0 && len(lineups) > e.opts.MaxLineups {
		lineups = lineups[:e.opts.MaxLineups]
	}

	result := &Result{
		SearchID:      searchID,
		Strategy:      e.opts.Strategy,
		Policy:        e.opts.Policy,
		Lineups:       lineups,
		Summary:       summary,
		NodesExpanded: s.nodes.Load(),
		ElapsedMs:     time.Since(startTime).Milliseconds(),
		Truncated:     s.halted.Load(),
		StopReason:    s.stopReason(),
	}

	entry := log.WithFields(logrus.Fields{
		"valid_lineups":  summary.Count,
		"nodes_expanded": result.NodesExpanded,
		"elapsed_ms":     result.ElapsedMs,
	})
	if result.Truncated {
		entry.WithField("stop_reason", result.StopReason).Warn("Lineup search truncated")
	} else {
		entry.Info("Lineup search completed")
	}

	return result, nil
}

// preparePool orders the pool by value, cheapest points first, with the id
// as tie-breaker so enumeration order is reproducible.
func preparePool(players []Player) ([]*Player, error) {
	pool := make([]*Player, len(players))
	seen := make(map[int]bool, len(players))
	for i := range players {
		p := players[i]
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePlayerID, p.ID)
		}
		seen[p.ID] = true
		pool[i] = &p
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Value != pool[j].Value {
			return pool[i].Value < pool[j].Value
		}
		return pool[i].ID < pool[j].ID
	})
	return pool, nil
}

// roots returns the independent subtrees the worker pool fans out over.
func (s *search) roots() []*Team {
	policy := s.engine.opts.Policy
	empty := NewTeam(s.engine.rules)
	if !empty.IsFeasible(policy) {
		return nil
	}

	var roots []*Team
	for _, p := range s.candidates(empty) {
		child, outcome := empty.Add(p)
		if !outcome.Assigned() || !child.IsFeasible(policy) {
			continue
		}
		roots = append(roots, child)
	}
	return roots
}

// candidates lists the players to branch over from t. The indexed strategy
// only offers affordable players eligible for the next open slot.
func (s *search) candidates(t *Team) []*Player {
	if s.engine.opts.Strategy == StrategyUnindexed {
		return s.pool
	}
	slot, ok := t.NextSlot()
	if !ok {
		return nil
	}
	return s.index.FindAffordable(slot, t.RemainingSalary())
}

func (s *search) run(roots []*Team) {
	workers := s.engine.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(roots) {
		workers = len(roots)
	}

	jobs := make(chan *Team)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go s.worker(jobs, len(roots), &wg)
	}

dispatch:
	for _, root := range roots {
		if s.halted.Load() {
			break
		}
		select {
		case jobs <- root:
		case <-s.ctx.Done():
			s.stop(reasonFor(s.ctx))
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
}

func (s *search) worker(jobs <-chan *Team, total int, wg *sync.WaitGroup) {
	defer wg.Done()

	for root := range jobs {
		if s.halted.Load() {
			continue
		}
		if err := s.ctx.Err(); err != nil {
			s.stop(reasonFor(s.ctx))
			continue
		}

		b := &branch{search: s, policy: s.engine.opts.Policy, depthLimit: len(s.engine.rules.Roster)}
		if s.engine.opts.Dedup {
			b.byKey = make(map[string]int)
		}
		b.expand(root)
		s.merge(b.found, total)
	}
}

// visit counts an expanded node and reports whether the search may go on.
func (s *search) visit() bool {
	if s.halted.Load() {
		return false
	}
	n := s.nodes.Add(1)
	if budget := s.engine.opts.NodeBudget; budget > 0 && n > budget {
		s.stop(StopNodeBudget)
		return false
	}
	if n%ctxCheckInterval == 0 && s.ctx.Err() != nil {
		s.stop(reasonFor(s.ctx))
		return false
	}
	return true
}

// stop halts every worker; only the first reason is kept.
func (s *search) stop(reason StopReason) {
	if s.halted.CompareAndSwap(false, true) {
		s.reason.Store(reason)
	}
}

func (s *search) stopReason() StopReason {
	if r, ok := s.reason.Load().(StopReason); ok {
		return r
	}
	return StopNone
}

func reasonFor(ctx context.Context) StopReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return StopDeadline
	}
	return StopCanceled
}

// path returns the pool positions of t's players in build order.
func (s *search) path(t *Team) []int {
	assignments := t.Assignments()
	path := make([]int, len(assignments))
	for i, a := range assignments {
		path[i] = s.positions[a.Player.ID]
	}
	return path
}

// keep adds t to found, collapsing player sets already present when byKey is
// non-nil. The representative is the team with the smallest build path so the
// outcome does not depend on which worker found it first.
func (s *search) keep(found []*Team, byKey map[string]int, t *Team) []*Team {
	if byKey == nil {
		return append(found, t)
	}
	key := t.Key()
	if i, ok := byKey[key]; ok {
		if slices.Compare(s.path(t), s.path(found[i])) < 0 {
			found[i] = t
		}
		return found
	}
	byKey[key] = len(found)
	return append(found, t)
}

func (s *search) merge(teams []*Team, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var byKey map[string]int
	if s.engine.opts.Dedup {
		byKey = s.byKey
	}
	for _, t := range teams {
		s.found = s.keep(s.found, byKey, t)
	}
	s.done++

	if s.engine.opts.Progress != nil {
		s.engine.opts.Progress(ProgressUpdate{
			SearchID:      s.searchID,
			BranchesDone:  s.done,
			BranchesTotal: total,
			LineupsFound:  len(s.found),
			NodesExpanded: s.nodes.Load(),
			Progress:      float64(s.done) / float64(total),
		})
	}
}

func (s *search) lineups() []Lineup {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Lineup, 0, len(s.found))
	for _, t := range s.found {
		assignments := t.Assignments()
		players := make([]LineupPlayer, len(assignments))
		for i, a := range assignments {
			players[i] = LineupPlayer{
				ID:              a.Player.ID,
				Name:            a.Player.Name,
				Role:            a.Player.Role,
				Slot:            a.Slot,
				Cost:            a.Player.Cost,
				Game:            a.Player.Game,
				ProjectedPoints: a.Player.ProjectedPoints,
			}
		}
		out = append(out, Lineup{
			Key:             t.Key(),
			Players:         players,
			TotalSalary:     t.Spend(),
			RemainingSalary: t.RemainingSalary(),
			ProjectedPoints: t.ProjectedPoints(),
			path:            s.path(t),
		})
	}
	return out
}

// branch is one worker's depth-first walk of a top-level subtree.
type branch struct {
	search     *search
	policy     Policy
	depthLimit int
	found      []*Team
	byKey      map[string]int
}

func (b *branch) expand(t *Team) {
	if !b.search.visit() {
		return
	}
	if t.IsComplete() {
		if t.IsValid(b.policy) {
			b.found = b.search.keep(b.found, b.byKey, t)
		}
		return
	}
	if t.Len() >= b.depthLimit {
		return
	}

	for _, p := range b.search.candidates(t) {
		child, outcome := t.Add(p)
		if !outcome.Assigned() || !child.IsFeasible(b.policy) {
			continue
		}
		b.expand(child)
		if b.search.halted.Load() {
			return
		}
	}
}
