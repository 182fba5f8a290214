package room

import (
	"slices"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   Result
	}{
		{"single leader", []int{7, 3, 3}, Result{WinnerName: "Alice"}},
		{"two leaders tie", []int{5, 5, 3}, Result{Tie: true, TiedNames: []string{"Alice", "Bob"}}},
		{"leader last", []int{1, 2, 9}, Result{WinnerName: "Cara"}},
		{"everyone tied", []int{4, 4, 4}, Result{Tie: true, TiedNames: []string{"Alice", "Bob", "Cara"}}},
		{"negative scores", []int{-3, -1}, Result{WinnerName: "Bob"}},
		{"alone", []int{0}, Result{WinnerName: "Alice"}},
		{"empty", nil, Result{}},
	}

	names := []string{"Alice", "Bob", "Cara"}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			roster := []Entry{}
			for i, score := range test.scores {
				roster = append(roster, Entry{ID: names[i], Name: names[i], Score: score})
			}

			got := Resolve(roster)
			if got.WinnerName != test.want.WinnerName || got.Tie != test.want.Tie ||
				!slices.Equal(got.TiedNames, test.want.TiedNames) {
				t.Errorf("Resolve(%v) = %+v, want %+v", test.scores, got, test.want)
			}
		})
	}
}

func TestResultOutcome(t *testing.T) {
	if (Result{WinnerName: "Alice"}).Outcome() != "winner" {
		t.Error("single winner should report outcome winner")
	}
	if (Result{Tie: true}).Outcome() != "tie" {
		t.Error("tie should report outcome tie")
	}
}
