package tui

// layout holds panel sizes derived from the terminal size. The screen is the
// filter row, the two bordered panels side by side, then the status row.
type layout struct {
	listW    int
	previewW int
	panelH   int
}

const (
	chromeRows  = 6 // filter and status rows, panel borders, viewport borders
	minPanelW   = 20
	minPanelH   = 5
	listPercent = 40
)

func newLayout(width, height int) layout {
	l := layout{
		listW:    width*listPercent/100 - 4,
		previewW: width*(100-listPercent)/100 - 4,
		panelH:   height - chromeRows,
	}
	l.listW = max(l.listW, minPanelW)
	l.previewW = max(l.previewW, minPanelW)
	l.panelH = max(l.panelH, minPanelH)
	return l
}

// visibleRows is how many list entries fit in the list panel.
func (l layout) visibleRows() int {
	return max(l.panelH/linesPerItem, 1)
}

// rowAt maps a mouse position to a list index, given the first visible index.
// The list content starts below the filter row and the panel's top border.
func (l layout) rowAt(x, y, offset int) (int, bool) {
	relY := y - 2
	if x < 1 || x > l.listW || relY < 0 || relY >= l.panelH {
		return -1, false
	}
	return offset + relY/linesPerItem, true
}

// overPreview reports whether column x falls inside the preview panel.
func (l layout) overPreview(x int) bool {
	return x > l.listW+2
}
