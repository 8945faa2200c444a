package schedule

// Kickoff grids: single-field tournaments play six games at 70-minute
// intervals, five-team tournaments run five rounds on two fields.
var (
	singleFieldKickoffs = []string{"10:00", "11:10", "12:20", "13:30", "14:40", "15:50"}
	twoFieldKickoffs    = []string{"10:00", "11:10", "12:20", "13:30", "14:40"}
)

type threeTeamSlate struct{}

func (threeTeamSlate) TeamCount() int { return 3 }

func (threeTeamSlate) GetName() string { return "ThreeTeamDoubleRoundRobin" }

// Three teams play a double round robin; the idle team referees.
func (threeTeamSlate) Slate() []Slot {
	pattern := [][3]int{
		{0, 1, 2},
		{0, 2, 1},
		{2, 1, 0},
		{1, 0, 2},
		{2, 0, 1},
		{1, 2, 0},
	}
	return slotsFromPattern(pattern, singleFieldKickoffs, nil)
}

type fourTeamSlate struct{}

func (fourTeamSlate) TeamCount() int { return 4 }

func (fourTeamSlate) GetName() string { return "FourTeamRoundRobin" }

func (fourTeamSlate) Slate() []Slot {
	pattern := [][3]int{
		{0, 1, 3},
		{3, 2, 0},
		{2, 0, 1},
		{1, 3, 2},
		{2, 1, 3},
		{0, 3, 1},
	}
	return slotsFromPattern(pattern, singleFieldKickoffs, nil)
}

type fiveTeamSlate struct{}

func (fiveTeamSlate) TeamCount() int { return 5 }

func (fiveTeamSlate) GetName() string { return "FiveTeamTwoFieldRoundRobin" }

// Five teams need two parallel fields to finish a full round robin in five
// rounds; each team referees once per field cycle.
func (fiveTeamSlate) Slate() []Slot {
	field1 := [][3]int{
		{0, 1, 4},
		{2, 0, 3},
		{4, 2, 1},
		{3, 1, 2},
		{3, 4, 0},
	}
	field2 := [][3]int{
		{2, 3, 4},
		{1, 4, 3},
		{0, 3, 1},
		{4, 0, 2},
		{1, 2, 0},
	}

	slots := slotsFromPattern(field1, twoFieldKickoffs, fieldNumber(1))
	return append(slots, slotsFromPattern(field2, twoFieldKickoffs, fieldNumber(2))...)
}

func slotsFromPattern(pattern [][3]int, kickoffs []string, field *int) []Slot {
	slots := make([]Slot, 0, len(pattern))
	for i, p := range pattern {
		slots = append(slots, Slot{
			Team1:   p[0],
			Team2:   p[1],
			Referee: p[2],
			Kickoff: kickoffs[i],
			Field:   field,
		})
	}
	return slots
}
