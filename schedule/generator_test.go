package schedule

import (
	"errors"
	"testing"
)

func TestForTeamCount_SupportedSizes(t *testing.T) {
	for _, count := range []int{3, 4, 5} {
		generator, err := ForTeamCount(count)
		if err != nil {
			t.Fatalf("ForTeamCount(%d) returned error: %v", count, err)
		}
		if generator.TeamCount() != count {
			t.Fatalf("TeamCount() = %d, want %d", generator.TeamCount(), count)
		}
	}
}

func TestForTeamCount_Unsupported(t *testing.T) {
	for _, count := range []int{0, 1, 2, 6} {
		if _, err := ForTeamCount(count); !errors.Is(err, ErrUnsupportedTeamCount) {
			t.Fatalf("ForTeamCount(%d) err = %v, want ErrUnsupportedTeamCount", count, err)
		}
	}
}

func TestSlates_RefereeNeverPlays(t *testing.T) {
	for _, count := range []int{3, 4, 5} {
		generator, err := ForTeamCount(count)
		if err != nil {
			t.Fatalf("ForTeamCount(%d) returned error: %v", count, err)
		}
		for i, slot := range generator.Slate() {
			if slot.Referee == slot.Team1 || slot.Referee == slot.Team2 {
				t.Fatalf("%s slot %d: referee %d is playing", generator.GetName(), i, slot.Referee)
			}
			if slot.Team1 == slot.Team2 {
				t.Fatalf("%s slot %d: team plays itself", generator.GetName(), i)
			}
		}
	}
}

func TestThreeTeamSlate_DoubleRoundRobin(t *testing.T) {
	generator, _ := ForTeamCount(3)
	slots := generator.Slate()
	if len(slots) != 6 {
		t.Fatalf("slots = %d, want 6", len(slots))
	}

	// Each unordered pairing appears exactly twice.
	pairings := map[[2]int]int{}
	for _, slot := range slots {
		key := [2]int{slot.Team1, slot.Team2}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		pairings[key]++
	}
	if len(pairings) != 3 {
		t.Fatalf("distinct pairings = %d, want 3", len(pairings))
	}
	for pairing, count := range pairings {
		if count != 2 {
			t.Fatalf("pairing %v appears %d times, want 2", pairing, count)
		}
	}
}

func TestFourTeamSlate_SingleRoundRobinTwice(t *testing.T) {
	generator, _ := ForTeamCount(4)
	slots := generator.Slate()
	if len(slots) != 6 {
		t.Fatalf("slots = %d, want 6", len(slots))
	}

	pairings := map[[2]int]int{}
	for _, slot := range slots {
		key := [2]int{slot.Team1, slot.Team2}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		pairings[key]++
	}
	if len(pairings) != 6 {
		t.Fatalf("distinct pairings = %d, want 6 (full round robin)", len(pairings))
	}
	for _, slot := range slots {
		if slot.Field != nil {
			t.Fatal("four-team slate plays on a single unnumbered field")
		}
	}
}

func TestFiveTeamSlate_TwoFieldsNoOverlap(t *testing.T) {
	generator, _ := ForTeamCount(5)
	slots := generator.Slate()
	if len(slots) != 10 {
		t.Fatalf("slots = %d, want 10", len(slots))
	}

	// Per kickoff round: four distinct playing teams, and the fifth team
	// referees both fields.
	byKickoff := map[string][]Slot{}
	for _, slot := range slots {
		if slot.Field == nil {
			t.Fatal("five-team slate requires field numbers")
		}
		byKickoff[slot.Kickoff] = append(byKickoff[slot.Kickoff], slot)
	}
	if len(byKickoff) != 5 {
		t.Fatalf("kickoff rounds = %d, want 5", len(byKickoff))
	}
	for kickoff, round := range byKickoff {
		if len(round) != 2 {
			t.Fatalf("round %s has %d games, want 2", kickoff, len(round))
		}
		playing := map[int]bool{}
		for _, slot := range round {
			for _, team := range []int{slot.Team1, slot.Team2} {
				if playing[team] {
					t.Fatalf("round %s fields team %d twice", kickoff, team)
				}
				playing[team] = true
			}
		}
		if round[0].Referee != round[1].Referee {
			t.Fatalf("round %s has split referees %d and %d, want the idle team on both fields",
				kickoff, round[0].Referee, round[1].Referee)
		}
		if playing[round[0].Referee] {
			t.Fatalf("round %s referee %d is playing", kickoff, round[0].Referee)
		}
	}
}
