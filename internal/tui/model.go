// Package tui renders the interactive record dashboard on top of the record store controller.
package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/hylla/tablero/internal/app"
	"github.com/hylla/tablero/internal/domain"
)

const (
	defaultToastTTL = 4 * time.Second
	maxToasts       = 3
)

// inputMode identifies which overlay owns key input.
type inputMode int

const (
	modeNormal inputMode = iota
	modeForm
	modeConfirmDelete
	modeDetail
)

// opResultMsg carries the outcome of one store operation.
type opResultMsg struct {
	op      string
	effects []app.Effect
	err     error
}

// toastExpiredMsg removes one toast once its display time elapses.
type toastExpiredMsg struct {
	id int
}

// toast is one on-screen notification.
type toast struct {
	id           int
	notification app.Notification
}

// deleteTarget is the record awaiting delete confirmation.
type deleteTarget struct {
	kind  domain.Kind
	id    string
	label string
}

// Model is the dashboard state.
type Model struct {
	store    *app.Store
	ctx      context.Context
	keys     keyMap
	formKeys formKeyMap
	help     help.Model
	markdown *markdownRenderer
	copyText func(string) error
	toastTTL time.Duration

	ready  bool
	width  int
	height int

	mode     inputMode
	tab      int
	selected [3]int
	form     *recordForm
	confirm  *deleteTarget
	detail   string
	pending  bool
	status   string

	toasts      []toast
	nextToastID int
	expiring    []int
}

// NewModel constructs the dashboard over store.
func NewModel(store *app.Store, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		store:    store,
		ctx:      context.Background(),
		keys:     newKeyMap(),
		formKeys: newFormKeyMap(),
		help:     h,
		markdown: &markdownRenderer{},
		copyText: clipboard.WriteAll,
		toastTTL: defaultToastTTL,
		status:   "loading",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init loads every collection.
func (m Model) Init() tea.Cmd {
	return m.runOp("load", m.store.FetchAll)
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case opResultMsg:
		return m.handleResult(msg)

	case toastExpiredMsg:
		for idx, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:idx:idx], m.toasts[idx+1:]...)
				break
			}
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeDetail:
			switch msg.String() {
			case "esc", "q", "enter", "i":
				m.mode = modeNormal
				m.detail = ""
			}
			return m, nil
		default:
			return m.updateNormal(msg)
		}

	default:
		if m.mode == modeForm && m.form != nil {
			return m, m.form.update(msg)
		}
		return m, nil
	}
}

// handleResult executes the effects of a finished operation.
func (m Model) handleResult(msg opResultMsg) (tea.Model, tea.Cmd) {
	m.pending = false
	if errors.Is(msg.err, app.ErrBusy) {
		m.status = "busy: wait for the current operation"
		return m, nil
	}
	m.expiring = m.expiring[:0]
	app.Present(&m, msg.effects)
	switch {
	case msg.err != nil:
		m.status = msg.op + " failed"
	case msg.op == "load":
		m.status = "ready"
	default:
		m.status = msg.op + " done"
	}
	m.clampSelection()
	return m, m.expiryCmds()
}

// Notify queues a toast. It implements app.Presenter.
func (m *Model) Notify(n app.Notification) {
	m.nextToastID++
	m.toasts = append(m.toasts, toast{id: m.nextToastID, notification: n})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	m.expiring = append(m.expiring, m.nextToastID)
}

// DismissForm closes the form for kind if it is open. It implements app.Presenter.
func (m *Model) DismissForm(kind domain.Kind) {
	if m.form == nil || m.form.kind != kind {
		return
	}
	m.form = nil
	if m.mode == modeForm {
		m.mode = modeNormal
	}
}

func (m Model) expiryCmds() tea.Cmd {
	if len(m.expiring) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.expiring))
	for _, id := range m.expiring {
		cmds = append(cmds, tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}

// runOp runs fn off the update loop and reports its effects.
func (m Model) runOp(op string, fn func(context.Context) ([]app.Effect, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		effects, err := fn(ctx)
		return opResultMsg{op: op, effects: effects, err: err}
	}
}

// blocked reports whether a new operation must wait.
func (m Model) blocked() bool {
	return m.pending || m.store.Busy()
}

func (m Model) updateNormal(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	kind := m.kind()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.nextTab):
		m.tab = (m.tab + 1) % len(domain.Kinds())
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.tab = (m.tab + len(domain.Kinds()) - 1) % len(domain.Kinds())
		return m, nil
	case key.Matches(msg, m.keys.jumpTab):
		m.tab = clamp(int(msg.Code-'1'), 0, len(domain.Kinds())-1)
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.selected[m.tab]++
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		m.selected[m.tab]--
		m.clampSelection()
		return m, nil
	case key.Matches(msg, m.keys.reload):
		if m.blocked() {
			m.status = "busy: wait for the current operation"
			return m, nil
		}
		m.pending = true
		m.status = "loading"
		return m, m.runOp("load", m.store.FetchAll)
	case key.Matches(msg, m.keys.newRecord):
		if !m.store.Supports(kind, app.OpCreate) {
			m.status = "creating is not available for this data source"
			return m, nil
		}
		return m, m.openForm(kind, "")
	case key.Matches(msg, m.keys.editRecord):
		if !m.store.Supports(kind, app.OpUpdate) {
			m.status = "editing is not available for this data source"
			return m, nil
		}
		id, ok := m.selectedID()
		if !ok {
			m.status = "nothing to edit"
			return m, nil
		}
		if err := m.store.BeginEdit(kind, id); err != nil {
			m.status = "edit: " + err.Error()
			return m, nil
		}
		return m, m.openForm(kind, id)
	case key.Matches(msg, m.keys.delete):
		if !m.store.Supports(kind, app.OpDelete) {
			m.status = "deleting is not available for this data source"
			return m, nil
		}
		id, ok := m.selectedID()
		if !ok {
			m.status = "nothing to delete"
			return m, nil
		}
		m.confirm = &deleteTarget{kind: kind, id: id, label: m.recordLabel(kind, id)}
		m.mode = modeConfirmDelete
		return m, nil
	case key.Matches(msg, m.keys.details):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		m.detail = id
		m.mode = modeDetail
		return m, nil
	case key.Matches(msg, m.keys.copyID):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		if err := m.copyText(id); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = "copied " + id
		return m, nil
	}
	return m, nil
}

// openForm opens a create form, or an edit form prefilled from the record with id.
func (m *Model) openForm(kind domain.Kind, id string) tea.Cmd {
	switch kind {
	case domain.KindItem:
		item, _ := m.store.Items().Get(id)
		m.form = newItemForm(item, id)
	case domain.KindEmployee:
		emp, _ := m.store.Employees().Get(id)
		m.form = newEmployeeForm(emp, id)
	case domain.KindOpportunity:
		opp, _ := m.store.Opportunities().Get(id)
		m.form = newOpportunityForm(opp, id)
	default:
		return nil
	}
	m.mode = modeForm
	m.status = strings.ToLower(m.form.title())
	return m.form.focusField(0)
}

// closeForm abandons the open form and clears the edit target.
func (m *Model) closeForm() {
	if m.form != nil && m.form.editing() {
		m.store.CancelEdit(m.form.kind)
	}
	m.form = nil
	m.mode = modeNormal
	m.status = "ready"
}

func (m Model) updateForm(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeNormal
		return m, nil
	}
	switch {
	case key.Matches(msg, m.formKeys.cancel):
		m.closeForm()
		return m, nil
	case key.Matches(msg, m.formKeys.submit):
		return m.submitForm()
	case key.Matches(msg, m.formKeys.next):
		return m, m.form.move(1)
	case key.Matches(msg, m.formKeys.prev):
		return m, m.form.move(-1)
	case key.Matches(msg, m.formKeys.cycle) && m.form.focusedChoice():
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		m.form.cycle(delta)
		return m, nil
	}
	return m, m.form.update(msg)
}

// submitForm validates the form and hands the draft to the controller.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.blocked() {
		m.status = "busy: wait for the current operation"
		return m, nil
	}
	form := m.form
	var run func(context.Context) ([]app.Effect, error)
	switch form.kind {
	case domain.KindItem:
		draft, err := form.itemDraft()
		if err != nil {
			form.err = formError(err)
			return m, nil
		}
		run = func(ctx context.Context) ([]app.Effect, error) {
			if form.editing() {
				return m.store.Items().Update(ctx, form.editID, draft.PatchFrom())
			}
			return m.store.Items().Create(ctx, draft)
		}
	case domain.KindEmployee:
		draft, err := form.employeeDraft()
		if err != nil {
			form.err = formError(err)
			return m, nil
		}
		run = func(ctx context.Context) ([]app.Effect, error) {
			if form.editing() {
				return m.store.Employees().Update(ctx, form.editID, draft.PatchFrom())
			}
			return m.store.Employees().Create(ctx, draft)
		}
	case domain.KindOpportunity:
		draft, err := form.opportunityDraft()
		if err != nil {
			form.err = formError(err)
			return m, nil
		}
		run = func(ctx context.Context) ([]app.Effect, error) {
			if form.editing() {
				return m.store.Opportunities().Update(ctx, form.editID, draft.PatchFrom())
			}
			return m.store.Opportunities().Create(ctx, draft)
		}
	default:
		return m, nil
	}
	op := "create"
	if form.editing() {
		op = "update"
	}
	m.pending = true
	m.status = "saving"
	return m, m.runOp(op, run)
}

func (m Model) updateConfirm(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	target := m.confirm
	switch msg.String() {
	case "y", "enter":
		m.confirm = nil
		m.mode = modeNormal
		if target == nil {
			return m, nil
		}
		if m.blocked() {
			m.status = "busy: wait for the current operation"
			return m, nil
		}
		m.pending = true
		m.status = "deleting"
		return m, m.runOp("delete", func(ctx context.Context) ([]app.Effect, error) {
			return m.store.Delete(ctx, target.kind, target.id)
		})
	case "n", "esc", "q":
		m.confirm = nil
		m.mode = modeNormal
		m.status = "delete cancelled"
	}
	return m, nil
}

// kind returns the record kind of the active tab.
func (m Model) kind() domain.Kind {
	kinds := domain.Kinds()
	return kinds[clamp(m.tab, 0, len(kinds)-1)]
}

// recordIDs returns the ids of kind in display order.
func (m Model) recordIDs(kind domain.Kind) []string {
	var ids []string
	switch kind {
	case domain.KindItem:
		for _, r := range m.store.Items().Records() {
			ids = append(ids, r.ID)
		}
	case domain.KindEmployee:
		for _, r := range m.store.Employees().Records() {
			ids = append(ids, r.ID)
		}
	case domain.KindOpportunity:
		for _, r := range m.store.Opportunities().Records() {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// selectedID returns the id under the cursor on the active tab.
func (m Model) selectedID() (string, bool) {
	ids := m.recordIDs(m.kind())
	if len(ids) == 0 {
		return "", false
	}
	return ids[clamp(m.selected[m.tab], 0, len(ids)-1)], true
}

// recordLabel returns the display name of one record.
func (m Model) recordLabel(kind domain.Kind, id string) string {
	switch kind {
	case domain.KindItem:
		if r, ok := m.store.Items().Get(id); ok {
			return r.Name
		}
	case domain.KindEmployee:
		if r, ok := m.store.Employees().Get(id); ok {
			return r.Name
		}
	case domain.KindOpportunity:
		if r, ok := m.store.Opportunities().Get(id); ok {
			return r.Title
		}
	}
	return id
}

func (m *Model) clampSelection() {
	for idx, kind := range domain.Kinds() {
		m.selected[idx] = clamp(m.selected[idx], 0, max(0, len(m.recordIDs(kind))-1))
	}
}

// View renders the dashboard.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("tablero") + statusStyle.Render("  ["+m.store.Mode().String()+" data]")
	if m.pending || m.store.Busy() {
		header += lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("  ● working")
	}

	sections := []string{
		header,
		m.renderTabs(accent, dim),
		m.renderStats(muted),
		"",
		m.renderTable(accent, muted),
	}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, "", toasts)
	}
	if m.status != "" {
		sections = append(sections, "", statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	keys := help.KeyMap(m.keys.withoutEdit(!m.store.Supports(m.kind(), app.OpUpdate)))
	if m.mode == modeForm {
		helpBubble.ShowAll = false
		keys = m.formKeys
	}
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(keys))
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	full := content + "\n" + helpLine

	if overlay := m.renderOverlay(accent, muted, max(24, m.width-8)); overlay != "" {
		height := lipgloss.Height(full)
		if m.height > 0 {
			height = m.height
		}
		full = overlayOnContent(full, overlay, max(1, m.width), max(1, height))
	}
	v := tea.NewView(full)
	v.AltScreen = true
	return v
}

func (m Model) renderTabs(accent, dim color.Color) string {
	active := lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(dim)
	tabs := make([]string, 0, len(domain.Kinds()))
	for idx, kind := range domain.Kinds() {
		label := fmt.Sprintf("%d %s (%d)", idx+1, kind.Plural(), len(m.recordIDs(kind)))
		if idx == m.tab {
			tabs = append(tabs, active.Render(label))
			continue
		}
		tabs = append(tabs, inactive.Render(label))
	}
	return strings.Join(tabs, "   ")
}

func (m Model) renderStats(muted color.Color) string {
	stats := m.store.Stats()
	return lipgloss.NewStyle().Foreground(muted).Render(fmt.Sprintf(
		"items %d (%d active) · employees %d (%d active) · pipeline %s · won %s",
		stats.Items, stats.ActiveItems,
		stats.Employees, stats.ActiveEmployees,
		formatMoney(stats.OpenPipeline), formatMoney(stats.WonValue),
	))
}

// tableRows returns the headers and cell rows of kind.
func (m Model) tableRows(kind domain.Kind) ([]string, [][]string) {
	var rows [][]string
	switch kind {
	case domain.KindItem:
		for _, r := range m.store.Items().Records() {
			rows = append(rows, []string{r.Name, r.Email, string(r.Role), string(r.Status), r.CreatedAt.String()})
		}
		return []string{"Name", "Email", "Role", "Status", "Created"}, rows
	case domain.KindEmployee:
		for _, r := range m.store.Employees().Records() {
			rows = append(rows, []string{r.Name, r.Email, r.Position, string(r.Department), r.HireDate.String(), string(r.Status)})
		}
		return []string{"Name", "Email", "Position", "Department", "Hired", "Status"}, rows
	case domain.KindOpportunity:
		for _, r := range m.store.Opportunities().Records() {
			rows = append(rows, []string{r.Title, r.Client, formatMoney(r.Value), string(r.Status), string(r.Priority), r.Deadline.String()})
		}
		return []string{"Title", "Client", "Value", "Stage", "Priority", "Deadline"}, rows
	}
	return nil, nil
}

func (m Model) renderTable(accent, muted color.Color) string {
	kind := m.kind()
	headers, rows := m.tableRows(kind)
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render(fmt.Sprintf("No %s yet. Press n to add one.", kind.Plural()))
	}

	colWidth := max(8, (max(40, m.width)-2)/len(headers)-1)
	cell := func(s string) string {
		return lipgloss.NewStyle().Width(colWidth).MaxWidth(colWidth).Render(truncate(s, colWidth-1))
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(muted)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	editingStyle := lipgloss.NewStyle().Foreground(accent).Italic(true)

	editingID := m.store.Snapshot().Editing[kind]
	ids := m.recordIDs(kind)
	cursor := clamp(m.selected[m.tab], 0, len(rows)-1)

	lines := make([]string, 0, len(rows)+1)
	headerCells := make([]string, 0, len(headers))
	for _, h := range headers {
		headerCells = append(headerCells, cell(h))
	}
	lines = append(lines, "  "+headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)))
	for idx, row := range rows {
		cells := make([]string, 0, len(row))
		for _, value := range row {
			cells = append(cells, cell(value))
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		prefix := "  "
		switch {
		case idx == cursor:
			prefix = "> "
			line = selectedStyle.Render(line)
		case idx < len(ids) && ids[idx] == editingID:
			line = editingStyle.Render(line)
		}
		lines = append(lines, prefix+line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	base := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		style := base.BorderForeground(lipgloss.Color("62"))
		if t.notification.Variant == app.VariantDestructive {
			style = base.BorderForeground(lipgloss.Color("203"))
		}
		body := lipgloss.NewStyle().Bold(true).Render(t.notification.Title)
		if t.notification.Description != "" {
			body += "\n" + t.notification.Description
		}
		lines = append(lines, style.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderOverlay renders the active modal, if any.
func (m Model) renderOverlay(accent, muted color.Color, maxWidth int) string {
	width := min(maxWidth, 80)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(width)
	title := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hint := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeForm:
		if m.form == nil {
			return ""
		}
		return box.Render(title.Render(m.form.title()) + "\n\n" + m.form.view(width-6, accent, muted))
	case modeConfirmDelete:
		if m.confirm == nil {
			return ""
		}
		body := fmt.Sprintf("Delete %s %q?", strings.ToLower(m.confirm.kind.Label()), m.confirm.label)
		return box.Render(title.Render("Confirm delete") + "\n\n" + body + "\n\n" + hint.Render("y confirm • n cancel"))
	case modeDetail:
		md := m.detailMarkdown()
		if md == "" {
			return ""
		}
		rendered := m.markdown.render(md, width-6)
		if m.height > 0 {
			rendered = fitLines(rendered, max(4, m.height-8))
		}
		return box.Render(rendered + "\n" + hint.Render("esc close"))
	}
	return ""
}

// detailMarkdown describes the record shown in the detail overlay.
func (m Model) detailMarkdown() string {
	switch m.kind() {
	case domain.KindItem:
		if r, ok := m.store.Items().Get(m.detail); ok {
			return itemMarkdown(r)
		}
	case domain.KindEmployee:
		if r, ok := m.store.Employees().Get(m.detail); ok {
			return employeeMarkdown(r)
		}
	case domain.KindOpportunity:
		if r, ok := m.store.Opportunities().Get(m.detail); ok {
			return opportunityMarkdown(r)
		}
	}
	return ""
}

// newModalInput constructs one form input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or cuts content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}
	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewLayer(fitLines(base, height)).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)).X(0).Y(0).Z(10))
	return canvas.Render()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
