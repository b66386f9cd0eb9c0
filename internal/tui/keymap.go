package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the dashboard bindings shown in help.
type keyMap struct {
	quit       key.Binding
	reload     key.Binding
	toggleHelp key.Binding
	nextTab    key.Binding
	prevTab    key.Binding
	jumpTab    key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	newRecord  key.Binding
	editRecord key.Binding
	delete     key.Binding
	details    key.Binding
	copyID     key.Binding
}

// formKeyMap holds bindings active while a form modal is open.
type formKeyMap struct {
	next   key.Binding
	prev   key.Binding
	cycle  key.Binding
	submit key.Binding
	cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		nextTab:    key.NewBinding(key.WithKeys("tab", "l", "right"), key.WithHelp("tab/l", "next kind")),
		prevTab:    key.NewBinding(key.WithKeys("shift+tab", "h", "left"), key.WithHelp("shift+tab/h", "prev kind")),
		jumpTab:    key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "jump to kind")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		newRecord:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		editRecord: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		details:    key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "details")),
		copyID:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab/↓", "next field")),
		prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab/↑", "prev field")),
		cycle:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change option")),
		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns the compact help row.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.newRecord, k.editRecord, k.delete, k.details, k.nextTab, k.toggleHelp, k.quit}
}

// FullHelp returns the expanded help columns.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newRecord, k.editRecord, k.delete, k.details, k.copyID},
		{k.nextTab, k.prevTab, k.jumpTab, k.moveUp, k.moveDown},
		{k.reload, k.toggleHelp, k.quit},
	}
}

// ShortHelp returns the form help row.
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.prev, k.cycle, k.submit, k.cancel}
}

// FullHelp returns the form help row as one column.
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// withoutEdit hides the edit binding when the active source cannot update.
func (k keyMap) withoutEdit(hidden bool) keyMap {
	k.editRecord.SetEnabled(!hidden)
	return k
}
