package schedule

// Pairing is one generated fixture: the teams involved and the round
// (game day) it belongs to. Rounds are numbered from 1.
type Pairing struct {
	HomeTeamID int
	AwayTeamID int
	Round      int
}

// RoundRobin pairs every team against every other exactly once using the
// circle method. With doubleRound a return leg with home and away swapped
// follows the first cycle. Odd team counts get a bye each round.
func RoundRobin(teamIDs []int, doubleRound bool) []Pairing {
	if len(teamIDs) < 2 {
		return nil
	}

	// The circle method needs an even count; 0 marks the bye slot.
	ids := make([]int, len(teamIDs))
	copy(ids, teamIDs)
	if len(ids)%2 != 0 {
		ids = append(ids, 0)
	}

	n := len(ids)
	rounds := n - 1
	half := n / 2

	pairings := make([]Pairing, 0, rounds*half)
	for round := 1; round <= rounds; round++ {
		for i := 0; i < half; i++ {
			home, away := ids[i], ids[n-1-i]
			if home == 0 || away == 0 {
				continue
			}
			// Alternate home advantage for the fixed first slot.
			if i == 0 && round%2 == 0 {
				home, away = away, home
			}
			pairings = append(pairings, Pairing{HomeTeamID: home, AwayTeamID: away, Round: round})
		}

		// Rotate all but the first element clockwise.
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}

	if doubleRound {
		firstCycle := len(pairings)
		for i := 0; i < firstCycle; i++ {
			p := pairings[i]
			pairings = append(pairings, Pairing{
				HomeTeamID: p.AwayTeamID,
				AwayTeamID: p.HomeTeamID,
				Round:      p.Round + rounds,
			})
		}
	}
	return pairings
}
