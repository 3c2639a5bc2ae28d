package units

import (
	"math"
	"testing"
)

func TestBoardsToFeet(t *testing.T) {
	tests := []struct {
		name     string
		boards   float64
		expected float64
	}{
		{"zero boards", 0, 0},
		{"one board", 1, 1.0641 / 12.0},
		{"full lane width", 39, 39 * 1.0641 / 12.0},
		{"negative displacement", -2, -2 * 1.0641 / 12.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BoardsToFeet(tt.boards)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("BoardsToFeet(%v) = %v, want %v", tt.boards, result, tt.expected)
			}
		})
	}
}

func TestBoardsToInches(t *testing.T) {
	if got := BoardsToInches(10); math.Abs(got-10.641) > 1e-9 {
		t.Errorf("BoardsToInches(10) = %v, want 10.641", got)
	}
}

func TestPocketBoard(t *testing.T) {
	if got := PocketBoard(true); got != 17.5 {
		t.Errorf("PocketBoard(true) = %v, want 17.5", got)
	}
	if got := PocketBoard(false); got != 22.5 {
		t.Errorf("PocketBoard(false) = %v, want 22.5", got)
	}
}

func TestDegreesFromRadians(t *testing.T) {
	if got := DegreesFromRadians(math.Pi); math.Abs(got-180) > 1e-9 {
		t.Errorf("DegreesFromRadians(pi) = %v, want 180", got)
	}
	if got := DegreesFromRadians(0); got != 0 {
		t.Errorf("DegreesFromRadians(0) = %v, want 0", got)
	}
}
