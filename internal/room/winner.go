package room

// Result is the payload of a winner announcement. Exactly one of WinnerName
// or Tie is set for a non-empty roster.
type Result struct {
	WinnerName string   `json:"winnerName,omitempty"`
	Tie        bool     `json:"tie,omitempty"`
	TiedNames  []string `json:"tiedNames,omitempty"`
}

func (result Result) Outcome() string {
	if result.Tie {
		return "tie"
	}
	return "winner"
}

// Resolve picks the highest score in the roster. When more than one player
// holds it the result is a tie between all of them, listed in roster order.
func Resolve(roster []Entry) Result {
	if len(roster) == 0 {
		return Result{}
	}

	best := roster[0].Score
	for _, entry := range roster[1:] {
		best = max(best, entry.Score)
	}

	leaders := []string{}
	for _, entry := range roster {
		if entry.Score == best {
			leaders = append(leaders, entry.Name)
		}
	}

	if len(leaders) == 1 {
		return Result{WinnerName: leaders[0]}
	}

	return Result{Tie: true, TiedNames: leaders}
}
