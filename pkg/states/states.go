// Package states holds the jurisdiction registry: the fifty US states
// plus the District of Columbia, each with the slug used in USDA
// checklist download URLs. The registry is loaded from an embedded
// YAML file and treated as immutable reference data.
package states

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// State is one jurisdiction entry.
type State struct {
	// Code is the two-letter code, uppercase, e.g. "NC".
	Code string `yaml:"code"`

	// Name is the human-readable name.
	Name string `yaml:"name"`

	// Slug is the token USDA embeds in the checklist file name,
	// e.g. "NCplants".
	Slug string `yaml:"slug"`

	// Active is false for jurisdictions excluded from fetching.
	Active bool `yaml:"active"`
}

// Registry is a validated set of states, keyed by code.
type Registry struct {
	byCode map[string]State
}

type registryFile struct {
	States []State `yaml:"states"`
}

// New parses a YAML registry document and validates it. Codes must be
// unique two-letter uppercase tokens and every entry needs a name and
// a slug.
func New(data []byte) (*Registry, error) {
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("cannot parse states registry: %w", err)
	}
	if len(rf.States) == 0 {
		return nil, fmt.Errorf("states registry is empty")
	}

	byCode := make(map[string]State, len(rf.States))
	for _, st := range rf.States {
		if len(st.Code) != 2 || st.Code != strings.ToUpper(st.Code) {
			return nil, fmt.Errorf("bad state code %q", st.Code)
		}
		if st.Name == "" || st.Slug == "" {
			return nil, fmt.Errorf("state %q needs name and slug", st.Code)
		}
		if _, dup := byCode[st.Code]; dup {
			return nil, fmt.Errorf("duplicate state code %q", st.Code)
		}
		byCode[st.Code] = st
	}
	return &Registry{byCode: byCode}, nil
}

// ByCode returns the state for a code, case-insensitively.
func (r *Registry) ByCode(code string) (State, bool) {
	st, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return st, ok
}

// All returns all states sorted by code.
func (r *Registry) All() []State {
	res := make([]State, 0, len(r.byCode))
	for _, st := range r.byCode {
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Code < res[j].Code })
	return res
}

// Active returns the active states sorted by code.
func (r *Registry) Active() []State {
	var res []State
	for _, st := range r.All() {
		if st.Active {
			res = append(res, st)
		}
	}
	return res
}

// Len returns the number of registered states.
func (r *Registry) Len() int {
	return len(r.byCode)
}
