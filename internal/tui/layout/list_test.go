package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"large terminal clamps to max", 200, 80},
		{"standard terminal uses percent", 120, 60},
		{"narrow terminal uses min", 70, 40},
		{"smaller than min leaves margin", 30, 26},
		{"tiny terminal clamps to 1", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d) = %d, want %d", tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateListHeight(t *testing.T) {
	cfg := DefaultConfig().List

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"standard terminal", 24, 17},
		{"tall terminal", 50, 43},
		{"short terminal clamps", 8, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateListHeight(tt.terminalHeight, cfg)
			if got != tt.want {
				t.Errorf("CalculateListHeight(%d) = %d, want %d", tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculateItemWidth(t *testing.T) {
	cfg := DefaultConfig().List

	if got := CalculateItemWidth(80, cfg); got != 72 {
		t.Errorf("CalculateItemWidth(80) = %d, want 72", got)
	}
	if got := CalculateItemWidth(4, cfg); got != 1 {
		t.Errorf("CalculateItemWidth(4) = %d, want 1", got)
	}
}

func TestCalculateVisibleListItems(t *testing.T) {
	tests := []struct {
		name        string
		maxVisible  int
		selectedIdx int
		totalItems  int
		wantStart   int
		wantEnd     int
	}{
		{"at start", 5, 0, 10, 0, 5},
		{"near start", 5, 2, 10, 0, 5},
		{"in middle", 5, 7, 10, 3, 8},
		{"at end", 5, 9, 10, 5, 10},
		{"fewer than max", 5, 2, 3, 0, 3},
		{"exact max items", 5, 2, 5, 0, 5},
		{"selected beyond max", 8, 10, 15, 3, 11},
		{"zero rows shows one", 0, 4, 10, 4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateVisibleListItems(tt.maxVisible, tt.selectedIdx, tt.totalItems)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("CalculateVisibleListItems(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.maxVisible, tt.selectedIdx, tt.totalItems,
					start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
