package lint

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// globalRegistry is the default registry filled by rule package init() functions.
var globalRegistry = NewRegistry()

// Registry stores lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[core.RuleCode]Rule // keyed by ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[core.RuleCode]Rule)}
}

// Add stores a rule, replacing any rule with the same ID.
func (r *Registry) Add(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
}

// All returns every rule ordered by normal-form rank, then ID.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// Get returns a rule by its ID.
func (r *Registry) Get(id core.RuleCode) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// Group returns the rules of one group, ordered like All.
func (r *Registry) Group(group string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []Rule
	for _, rule := range r.rules {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	sortRules(rules)
	return rules
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

func sortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool {
		ri, rj := rules[i].NormalForm().Rank(), rules[j].NormalForm().Rank()
		if ri != rj {
			return ri < rj
		}
		return rules[i].ID() < rules[j].ID()
	})
}

// Register adds a rule definition to the global registry.
// Call this from init() functions in rule packages.
func Register(def RuleDef) {
	globalRegistry.Add(FromDef(def))
}

// GetAll returns all registered rules in report order.
func GetAll() []Rule {
	return globalRegistry.All()
}

// GetByID returns a registered rule by its ID.
func GetByID(id core.RuleCode) (Rule, bool) {
	return globalRegistry.Get(id)
}

// GetByGroup returns all registered rules in a specific group.
func GetByGroup(group string) []Rule {
	return globalRegistry.Group(group)
}

// Count returns the number of registered rules.
func Count() int {
	return globalRegistry.Len()
}

// Default returns the global registry.
func Default() *Registry {
	return globalRegistry
}
