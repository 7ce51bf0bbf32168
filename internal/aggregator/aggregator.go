// Package aggregator turns a vote collection into the per-value tallies and
// the best classmate ranking. Every function is pure: the collection is only
// read.
package aggregator

import "sort"

// Resolver maps a student id to the name shown to users. It must be total.
type Resolver interface {
	Resolve(id string) string
}

type identity struct{}

func (identity) Resolve(id string) string { return id }

func resolverOrIdentity(r Resolver) Resolver {
	if r == nil {
		return identity{}
	}
	return r
}

// tallyOrder remembers the order in which names were first counted so ties
// can be broken deterministically.
type tallyOrder struct {
	order []string
	seen  map[string]struct{}
}

func newTallyOrder() *tallyOrder {
	return &tallyOrder{seen: map[string]struct{}{}}
}

func (o *tallyOrder) touch(name string) {
	if _, ok := o.seen[name]; ok {
		return
	}
	o.seen[name] = struct{}{}
	o.order = append(o.order, name)
}

// sortedNames returns names ordered by key descending, stable on first appearance.
func (o *tallyOrder) sortedNames(key func(name string) int) []string {
	names := make([]string, len(o.order))
	copy(names, o.order)
	sort.SliceStable(names, func(i, j int) bool {
		return key(names[i]) > key(names[j])
	})
	return names
}
