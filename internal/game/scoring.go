package game

// PointsFor maps a game outcome to its point delta. A loss always
// costs 3 points; a win pays out by how quickly it came.
func PointsFor(won bool, triesUsed int) int {
	if !won {
		return -3
	}
	switch triesUsed {
	case 1:
		return 10
	case 2:
		return 5
	case 3:
		return 4
	case 4:
		return 3
	case 5:
		return 2
	case 6:
		return 1
	default:
		return 1
	}
}

// NetPoints applies the mode gate: only daily games move points.
// Practice outcomes are recorded in history but score zero.
func NetPoints(mode Mode, won bool, triesUsed int) int {
	if mode != ModeDaily {
		return 0
	}
	return PointsFor(won, triesUsed)
}
