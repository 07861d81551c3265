package leaderboard

import (
	"sort"

	"github.com/google/uuid"
)

type Entry struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	XP     int       `json:"xp"`
}

type RankedEntry struct {
	Rank   int       `json:"rank"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	XP     int       `json:"xp"`
}

// Rank orders entries by XP descending and numbers them 1..n. Ties keep their
// input order and still get distinct ranks, so callers pass entries already
// sorted by their secondary key.
func Rank(entries []Entry) []RankedEntry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].XP > sorted[j].XP
	})

	ranked := make([]RankedEntry, len(sorted))
	for i, e := range sorted {
		ranked[i] = RankedEntry{Rank: i + 1, UserID: e.UserID, Name: e.Name, XP: e.XP}
	}
	return ranked
}
