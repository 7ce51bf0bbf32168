package aggregator

import (
	"sort"

	"vote-dashboard-go/internal/types"
)

// Categories lists every named value present in the collection, sorted.
// An empty key cannot be selected or queried, so it is left out.
func Categories(records types.Collection) []string {
	set := map[string]struct{}{}
	for _, rec := range records {
		for cat := range rec.Values {
			if cat == "" {
				continue
			}
			set[cat] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Tally counts nominations per student for one value.
func Tally(records types.Collection, category string, r Resolver) map[string]int {
	counts, _ := tally(records, category, r)
	return counts
}

// TallyRows is Tally ordered for display: most votes first, ties in order of
// first nomination.
func TallyRows(records types.Collection, category string, r Resolver) []types.CountRow {
	counts, order := tally(records, category, r)
	names := order.sortedNames(func(name string) int { return counts[name] })
	rows := make([]types.CountRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, types.CountRow{Name: name, Votes: counts[name]})
	}
	return rows
}

func tally(records types.Collection, category string, r Resolver) (map[string]int, *tallyOrder) {
	r = resolverOrIdentity(r)
	counts := map[string]int{}
	order := newTallyOrder()
	for _, rec := range records {
		for _, id := range rec.Values[category] {
			name := r.Resolve(id)
			order.touch(name)
			counts[name]++
		}
	}
	return counts, order
}
