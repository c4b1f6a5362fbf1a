package cleaner

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"csscleaner/config"
	"csscleaner/css"
)

// Sentinel marks comments which switch filtering off and back on.
const Sentinel = "postcss-cleaner:ignore"

// State of the filter pass.
type State int

const (
	// Active means rules are checked against the corpus.
	Active State = iota
	// Inactive means rules are left untouched.
	Inactive
)

func (s State) String() string {
	if s == Inactive {
		return "inactive"
	}
	return "active"
}

// NextState returns state after comment with given text. Sentinel comment
// with "on" starts ignored region, any other sentinel comment ends it.
func NextState(s State, comment string) State {
	if !strings.Contains(comment, Sentinel) {
		return s
	}
	if strings.Contains(comment, "on") {
		return Inactive
	}
	return Active
}

// Stats summarizes single filter pass.
type Stats struct {
	RemovedSelectors int
	RemovedRules     int
	IgnoredSelectors int
}

// Add accumulates counters.
func (s *Stats) Add(o Stats) {
	s.RemovedSelectors += o.RemovedSelectors
	s.RemovedRules += o.RemovedRules
	s.IgnoredSelectors += o.IgnoredSelectors
}

// Filter removes selectors which fragments cannot be found in the corpus.
// Lookup results are cached per fragment so Filter must not be used from
// several goroutines at once.
type Filter struct {
	log        *zap.Logger
	corpus     string
	rules      []IgnoreRule
	mode       config.LiteralMatchMode
	logRemoved bool
	logIgnored bool

	found map[string]bool
}

// FilterOption adjusts filter behavior.
type FilterOption func(*Filter)

// WithLiteralMatch sets how literal ignore rules are compared to selectors.
func WithLiteralMatch(mode config.LiteralMatchMode) FilterOption {
	return func(f *Filter) {
		f.mode = mode
	}
}

// WithLogging enables informational output for removed and ignored
// selectors.
func WithLogging(cfg config.CleanerLogConfig) FilterOption {
	return func(f *Filter) {
		f.logRemoved = cfg.RemovedRules
		f.logIgnored = cfg.IgnoredRules
	}
}

// NewFilter creates filter for given corpus and ignore rules. Rules are used
// as is, see ParseIgnoreRules to get default ones in place.
func NewFilter(corpus string, rules []IgnoreRule, log *zap.Logger, opts ...FilterOption) *Filter {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Filter{
		log:    log.Named("cleaner"),
		corpus: corpus,
		rules:  rules,
		found:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply walks stylesheet once in document order, modifying and removing
// rules in place.
func (f *Filter) Apply(sheet *css.Stylesheet) Stats {
	var nodes []*css.Node
	sheet.Walk(func(n *css.Node) bool {
		nodes = append(nodes, n)
		return true
	})

	var stats Stats
	state := Active
	for _, n := range nodes {
		state = f.step(state, n, &stats)
	}
	f.log.Debug("Stylesheet filtered",
		zap.Int("nodes", len(nodes)),
		zap.Int("rules left", len(sheet.Rules())),
		zap.Int("removed selectors", stats.RemovedSelectors),
		zap.Int("removed rules", stats.RemovedRules),
		zap.Int("ignored selectors", stats.IgnoredSelectors))
	return stats
}

func (f *Filter) step(state State, n *css.Node, stats *Stats) State {
	switch n.Type {
	case css.NodeComment:
		next := NextState(state, n.Text)
		if next != state {
			f.log.Debug("Filtering state changed", zap.Stringer("state", next), zap.Int("line", n.Line))
		}
		return next
	case css.NodeRule:
		if state == Inactive {
			for _, sel := range n.Selectors() {
				f.ignored(sel, n.Line)
				stats.IgnoredSelectors++
			}
			return state
		}
		f.filterRule(n, stats)
	}
	return state
}

func (f *Filter) filterRule(n *css.Node, stats *Stats) {
	selectors := SplitSelectors(n.Selector)

	keep := make([]bool, len(selectors))
	for i := len(selectors) - 1; i >= 0; i-- {
		sel := selectors[i]
		if f.ignore(sel) {
			f.ignored(sel, n.Line)
			stats.IgnoredSelectors++
			keep[i] = true
			continue
		}
		if f.present(Fragments(sel)) {
			keep[i] = true
			continue
		}
		if f.logRemoved {
			f.log.Info(fmt.Sprintf("Remove selector '%s' line %d", strings.TrimSpace(sel), n.Line))
		}
		stats.RemovedSelectors++
	}

	kept := make([]string, 0, len(selectors))
	for i, sel := range selectors {
		if keep[i] {
			kept = append(kept, strings.TrimSpace(sel))
		}
	}

	n.Selector = strings.Join(kept, ", ")
	if n.Selector == "" {
		n.Remove()
		stats.RemovedRules++
	}
}

func (f *Filter) ignored(sel string, line int) {
	if f.logIgnored {
		f.log.Info(fmt.Sprintf("Ignore selector '%s' line %d", strings.TrimSpace(sel), line))
	}
}

func (f *Filter) ignore(sel string) bool {
	for _, r := range f.rules {
		if r.Match(sel, f.mode) {
			return true
		}
	}
	return false
}

// present reports if every fragment is in the corpus. Selector without
// fragments has nothing to prove it is used.
func (f *Filter) present(fragments []string) bool {
	if len(fragments) == 0 {
		return false
	}
	for _, fr := range fragments {
		if !f.lookup(fr) {
			return false
		}
	}
	return true
}

func (f *Filter) lookup(fragment string) bool {
	if found, ok := f.found[fragment]; ok {
		return found
	}
	found := fragmentExpr(fragment).MatchString(f.corpus)
	f.found[fragment] = found
	return found
}
