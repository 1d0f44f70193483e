package ui

// Title menu entries, in display order.
const (
	ItemPlay = iota
	ItemAI
	ItemScores
	ItemQuit
)

var menuItems = []string{"Play Yourself", "AI Mode", "Top 10", "Quit"}

// Menu is the keyboard-driven selection state of the title menu.
type Menu struct {
	Items    []string
	Selected int
}

// NewMenu returns the title menu with the first entry selected.
func NewMenu() *Menu {
	return &Menu{Items: menuItems}
}

// Move shifts the selection by delta, wrapping at both ends.
func (m *Menu) Move(delta int) {
	n := len(m.Items)
	m.Selected = ((m.Selected+delta)%n + n) % n
}

// Label returns the text for entry i, with a marker on the selection.
func (m *Menu) Label(i int) string {
	if i == m.Selected {
		return "> " + m.Items[i]
	}
	return m.Items[i]
}

// QuickKey maps the digit shortcuts 1..3 to menu entries.
func QuickKey(r rune) (int, bool) {
	switch r {
	case '1':
		return ItemPlay, true
	case '2':
		return ItemAI, true
	case '3':
		return ItemScores, true
	}
	return 0, false
}
