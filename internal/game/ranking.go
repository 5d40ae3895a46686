package game

import (
	"sort"

	"redlight/internal/protocol"
)

// ComputeRanking sorts the players who clicked this round by reaction
// time ascending and awards points: with N ranked players, first place
// earns N and last place earns 1. Ties keep the incoming (join) order.
// Points are added to each player's cumulative score.
func ComputeRanking(players []*Player) []protocol.RankEntry {
	ranked := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.HasClicked {
			ranked = append(ranked, p)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ReactionTime < ranked[j].ReactionTime
	})

	total := len(ranked)
	entries := make([]protocol.RankEntry, total)
	for i, p := range ranked {
		points := total - i
		p.Score += points
		entries[i] = protocol.RankEntry{
			Name:   p.Name,
			Time:   p.ReactionTime,
			Points: points,
		}
	}

	return entries
}
