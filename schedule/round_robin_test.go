package schedule

import "testing"

func TestRoundRobinEveryPairOnce(t *testing.T) {
	ids := []int{1, 2, 3, 4}
	pairings := RoundRobin(ids, false)

	if len(pairings) != 6 {
		t.Fatalf("expected 6 pairings for 4 teams, got %d", len(pairings))
	}

	seen := map[[2]int]bool{}
	perRound := map[int]map[int]bool{}
	for _, p := range pairings {
		lo, hi := p.HomeTeamID, p.AwayTeamID
		if lo > hi {
			lo, hi = hi, lo
		}
		key := [2]int{lo, hi}
		if seen[key] {
			t.Fatalf("pair %v scheduled twice", key)
		}
		seen[key] = true

		if perRound[p.Round] == nil {
			perRound[p.Round] = map[int]bool{}
		}
		for _, id := range []int{p.HomeTeamID, p.AwayTeamID} {
			if perRound[p.Round][id] {
				t.Fatalf("team %d plays twice in round %d", id, p.Round)
			}
			perRound[p.Round][id] = true
		}
	}
	if len(perRound) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(perRound))
	}
}

func TestRoundRobinOddTeamCount(t *testing.T) {
	pairings := RoundRobin([]int{1, 2, 3}, false)

	// 3 teams: each pair meets once across 3 rounds, one bye per round.
	if len(pairings) != 3 {
		t.Fatalf("expected 3 pairings for 3 teams, got %d", len(pairings))
	}
	for _, p := range pairings {
		if p.HomeTeamID == 0 || p.AwayTeamID == 0 {
			t.Fatalf("bye slot leaked into pairing %+v", p)
		}
	}
}

func TestRoundRobinDoubleRound(t *testing.T) {
	pairings := RoundRobin([]int{1, 2, 3, 4}, true)

	if len(pairings) != 12 {
		t.Fatalf("expected 12 pairings for a double round robin, got %d", len(pairings))
	}

	// The return leg swaps home advantage.
	legs := map[[2]int]int{}
	for _, p := range pairings {
		legs[[2]int{p.HomeTeamID, p.AwayTeamID}]++
	}
	for key, count := range legs {
		if count != 1 {
			t.Fatalf("expected exactly one home leg for %v, got %d", key, count)
		}
		reverse := [2]int{key[1], key[0]}
		if legs[reverse] != 1 {
			t.Fatalf("missing return leg for %v", key)
		}
	}
}

func TestRoundRobinTooFewTeams(t *testing.T) {
	if got := RoundRobin([]int{1}, false); got != nil {
		t.Fatalf("expected nil for a single team, got %v", got)
	}
}
