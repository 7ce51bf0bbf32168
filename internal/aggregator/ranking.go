package aggregator

import "vote-dashboard-go/internal/types"

// Weights are the points for the 1st, 2nd and 3rd best classmate choice.
// Further choices on a ballot are ignored.
var Weights = [3]int{3, 2, 1}

// Rank scores every nominated student. Students never nominated are absent.
func Rank(records types.Collection, r Resolver) map[string]types.RankEntry {
	entries, _ := rank(records, r)
	return entries
}

// RankRows is Rank ordered by score, ties in order of first nomination.
func RankRows(records types.Collection, r Resolver) []types.RankRow {
	entries, order := rank(records, r)
	names := order.sortedNames(func(name string) int { return entries[name].Score })
	rows := make([]types.RankRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, types.RankRow{Name: name, RankEntry: entries[name]})
	}
	return rows
}

// Top returns at most n leading rows.
func Top(rows []types.RankRow, n int) []types.RankRow {
	if n < 0 {
		n = 0
	}
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// MaxScore is the highest score in rows, or 10 when there are none.
func MaxScore(rows []types.RankRow) int {
	if len(rows) == 0 {
		return 10
	}
	best := 0
	for _, row := range rows {
		if row.Score > best {
			best = row.Score
		}
	}
	return best
}

func rank(records types.Collection, r Resolver) (map[string]types.RankEntry, *tallyOrder) {
	r = resolverOrIdentity(r)
	entries := map[string]types.RankEntry{}
	order := newTallyOrder()
	for _, rec := range records {
		for pos, id := range rec.BestCompanion {
			if pos >= len(Weights) {
				break
			}
			name := r.Resolve(id)
			order.touch(name)
			e := entries[name]
			e.TotalNominations++
			e.Score += Weights[pos]
			entries[name] = e
		}
	}
	return entries, order
}
