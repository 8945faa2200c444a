package schedule

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTeamCount is returned when no slate exists for the number
// of approved teams.
var ErrUnsupportedTeamCount = errors.New("schedule can only be created for 3, 4 or 5 teams")

// Slot is one game of a slate. Team1, Team2 and Referee index into the
// (shuffled) team list the caller provides; Kickoff is a wall-clock time on
// the tournament day.
type Slot struct {
	Team1   int
	Team2   int
	Referee int
	Kickoff string
	Field   *int
}

// SlateGenerator produces the fixed game plan for one tournament size.
// Every team plays every opponent and referees when it is off the field.
type SlateGenerator interface {
	TeamCount() int
	Slate() []Slot
	GetName() string
}

// ForTeamCount picks the slate generator matching the number of approved
// teams.
func ForTeamCount(count int) (SlateGenerator, error) {
	switch count {
	case 3:
		return threeTeamSlate{}, nil
	case 4:
		return fourTeamSlate{}, nil
	case 5:
		return fiveTeamSlate{}, nil
	}
	return nil, fmt.Errorf("%w: got %d", ErrUnsupportedTeamCount, count)
}

func fieldNumber(n int) *int {
	return &n
}
