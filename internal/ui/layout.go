package ui

// DetermineLayoutMode picks how the maze screen arranges the grid and sidebar.
func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < 60 || rows < 20 {
		return LayoutTooSmall
	}
	if cols >= 100 && rows >= 26 {
		return LayoutWide
	}
	return LayoutMedium
}
