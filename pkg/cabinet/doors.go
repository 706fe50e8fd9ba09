package cabinet

// MaxDoorCount caps a manual door count.
const MaxDoorCount = 50

// AutoDoorCount derives the door count from the cabinet length. Full
// cabinets divided by height always get two doors; full cabinets divided by
// length get one or two. Every other cabinet steps from one to four doors.
func AutoDoorCount(t Type, division DoorDivision, length float64) int {
	if t == TypeFull {
		if division == DivisionByHeight {
			return 2
		}
		if length < 60 {
			return 1
		}
		return 2
	}
	switch {
	case length < 60:
		return 1
	case length < 115:
		return 2
	case length < 128:
		return 3
	default:
		return 4
	}
}
