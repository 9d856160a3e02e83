package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	List  ListConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// ListConfig holds item list dimension configuration.
type ListConfig struct {
	// HeightReduction is subtracted from terminal height for the list.
	// Accounts for: app padding (1) + breadcrumb (1) + status (1) + input (1) + message (1) + help (2) = 7
	HeightReduction int

	// MinHeight is the minimum number of visible rows.
	MinHeight int

	// ContentPadding is subtracted from terminal width for item rendering.
	// Accounts for app padding, cursor and selection marks.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	PathCharLimit   int
	Width           int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		List: ListConfig{
			HeightReduction: 7,
			MinHeight:       3,
			ContentPadding:  8,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     40,
			MaxWidth:     80,
		},
		Input: InputConfig{
			SearchCharLimit: 100,
			PathCharLimit:   50,
			Width:           40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
