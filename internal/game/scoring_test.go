package game

import "testing"

// TestPointsFor checks the full scoring table.
func TestPointsFor(t *testing.T) {
	tests := []struct {
		won   bool
		tries int
		want  int
	}{
		{true, 1, 10},
		{true, 2, 5},
		{true, 3, 4},
		{true, 4, 3},
		{true, 5, 2},
		{true, 6, 1},
		{true, 7, 1},
		{true, 0, 1},
		{false, 1, -3},
		{false, 6, -3},
	}
	for _, tt := range tests {
		if got := PointsFor(tt.won, tt.tries); got != tt.want {
			t.Errorf("PointsFor(%v, %d) = %d, want %d", tt.won, tt.tries, got, tt.want)
		}
	}
}

// TestNetPoints checks that practice games never move points.
func TestNetPoints(t *testing.T) {
	tests := []struct {
		mode  Mode
		won   bool
		tries int
		want  int
	}{
		{ModeDaily, true, 1, 10},
		{ModeDaily, false, 6, -3},
		{ModePractice, true, 1, 0},
		{ModePractice, false, 6, 0},
	}
	for _, tt := range tests {
		if got := NetPoints(tt.mode, tt.won, tt.tries); got != tt.want {
			t.Errorf("NetPoints(%v, %v, %d) = %d, want %d", tt.mode, tt.won, tt.tries, got, tt.want)
		}
	}
}
