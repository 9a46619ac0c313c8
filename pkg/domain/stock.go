package domain

import "sort"

// Stock is the read-only inventory snapshot consulted during planning.
// Items are tracked per unit role: primary units feed the primary lineage
// of a breeding step, secondary units the secondary lineage. Planning
// never mutates stock and treats every query as point-in-time against one
// fixed snapshot.
type Stock interface {
	HasPrimary(item Item) bool
	HasSecondary(item Item) bool
	CountPrimary(item Item) int
	CountSecondary(item Item) int
}

// StockSnapshot is a map-backed Stock implementation.
type StockSnapshot struct {
	primary   map[Item]int
	secondary map[Item]int
}

// NewStockSnapshot copies the supplied per-role counts into an immutable
// snapshot. Non-positive counts are dropped.
func NewStockSnapshot(primary, secondary map[Item]int) *StockSnapshot {
	s := &StockSnapshot{
		primary:   make(map[Item]int, len(primary)),
		secondary: make(map[Item]int, len(secondary)),
	}
	for item, count := range primary {
		if count > 0 {
			s.primary[item] = count
		}
	}
	for item, count := range secondary {
		if count > 0 {
			s.secondary[item] = count
		}
	}
	return s
}

// HasPrimary reports whether at least one primary unit of item is held.
func (s *StockSnapshot) HasPrimary(item Item) bool { return s.primary[item] > 0 }

// HasSecondary reports whether at least one secondary unit of item is held.
func (s *StockSnapshot) HasSecondary(item Item) bool { return s.secondary[item] > 0 }

// CountPrimary returns the number of primary units of item held.
func (s *StockSnapshot) CountPrimary(item Item) int { return s.primary[item] }

// CountSecondary returns the number of secondary units of item held.
func (s *StockSnapshot) CountSecondary(item Item) int { return s.secondary[item] }

// Items returns every item present in the snapshot in lexical order.
func (s *StockSnapshot) Items() []Item {
	seen := make(map[Item]struct{}, len(s.primary)+len(s.secondary))
	for item := range s.primary {
		seen[item] = struct{}{}
	}
	for item := range s.secondary {
		seen[item] = struct{}{}
	}
	out := make([]Item, 0, len(seen))
	for item := range seen {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
