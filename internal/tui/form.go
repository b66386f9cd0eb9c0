package tui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hylla/tablero/internal/domain"
)

// fieldKind distinguishes free text inputs from fixed option pickers.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldChoice
)

// formField is one labeled row in a record form.
type formField struct {
	key      string
	label    string
	kind     fieldKind
	input    textinput.Model
	options  []string
	choice   int
	readOnly bool
}

// value returns the field's current text or selected option.
func (f formField) value() string {
	if f.kind == fieldChoice {
		if len(f.options) == 0 {
			return ""
		}
		return f.options[clamp(f.choice, 0, len(f.options)-1)]
	}
	return f.input.Value()
}

// recordForm collects field input for one record kind. editID is empty for create forms.
type recordForm struct {
	kind   domain.Kind
	editID string
	fields []formField
	focus  int
	err    string
}

func textField(key, label, placeholder, value string, limit int) formField {
	return formField{
		key:   key,
		label: label,
		kind:  fieldText,
		input: newModalInput("", placeholder, value, limit),
	}
}

func choiceField[T ~string](key, label string, options []T, current T) formField {
	f := formField{key: key, label: label, kind: fieldChoice}
	for idx, option := range options {
		f.options = append(f.options, string(option))
		if strings.EqualFold(string(option), string(current)) {
			f.choice = idx
		}
	}
	return f
}

// newItemForm builds an item form prefilled from item.
func newItemForm(item domain.Item, editID string) *recordForm {
	item = item.Normalize()
	return &recordForm{
		kind:   domain.KindItem,
		editID: editID,
		fields: []formField{
			textField("name", "Name", "Ada Lovelace", item.Name, 120),
			textField("email", "Email", "ada@example.com", item.Email, 160),
			choiceField("role", "Role", domain.Roles(), item.Role),
			choiceField("status", "Status", domain.Statuses(), item.Status),
		},
	}
}

// newEmployeeForm builds an employee form. The hire date is fixed once the record exists.
func newEmployeeForm(emp domain.Employee, editID string) *recordForm {
	emp = emp.Normalize()
	if emp.Department == "" {
		emp.Department = domain.DepartmentTechnology
	}
	hireDate := textField("hireDate", "Hire date", "YYYY-MM-DD", emp.HireDate.String(), 10)
	hireDate.readOnly = editID != ""
	return &recordForm{
		kind:   domain.KindEmployee,
		editID: editID,
		fields: []formField{
			textField("name", "Name", "Grace Hopper", emp.Name, 120),
			textField("email", "Email", "grace@example.com", emp.Email, 160),
			textField("phone", "Phone", "+1 555 0100", emp.Phone, 40),
			textField("position", "Position", "Engineer", emp.Position, 80),
			choiceField("department", "Department", domain.Departments(), emp.Department),
			hireDate,
			choiceField("status", "Status", domain.Statuses(), emp.Status),
		},
	}
}

// newOpportunityForm builds an opportunity form prefilled from opp.
func newOpportunityForm(opp domain.Opportunity, editID string) *recordForm {
	opp = opp.Normalize()
	value := ""
	if editID != "" || opp.Value != 0 {
		value = strconv.FormatFloat(opp.Value, 'f', -1, 64)
	}
	return &recordForm{
		kind:   domain.KindOpportunity,
		editID: editID,
		fields: []formField{
			textField("title", "Title", "Enterprise renewal", opp.Title, 120),
			textField("client", "Client", "Acme Corp", opp.Client, 120),
			textField("value", "Value", "25000", value, 20),
			choiceField("status", "Stage", domain.Stages(), opp.Status),
			choiceField("priority", "Priority", domain.Priorities(), opp.Priority),
			textField("deadline", "Deadline", "YYYY-MM-DD", opp.Deadline.String(), 10),
			textField("description", "Description", "markdown supported", opp.Description, 2000),
		},
	}
}

// editing reports whether the form targets an existing record.
func (f *recordForm) editing() bool {
	return f.editID != ""
}

// title returns the modal heading.
func (f *recordForm) title() string {
	if f.editing() {
		return "Edit " + f.kind.Label()
	}
	return "New " + f.kind.Label()
}

// value returns the current value of the field with key.
func (f *recordForm) value(key string) string {
	for _, field := range f.fields {
		if field.key == key {
			return strings.TrimSpace(field.value())
		}
	}
	return ""
}

// focusField moves focus to idx, skipping read-only fields.
func (f *recordForm) focusField(idx int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	idx = clamp(idx, 0, len(f.fields)-1)
	f.focus = idx
	for i := range f.fields {
		f.fields[i].input.Blur()
	}
	if f.fields[idx].kind == fieldText && !f.fields[idx].readOnly {
		return f.fields[idx].input.Focus()
	}
	return nil
}

// move shifts focus by delta, wrapping and stepping over read-only fields.
func (f *recordForm) move(delta int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	idx := f.focus
	for range n {
		idx = (idx + delta + n) % n
		if !f.fields[idx].readOnly {
			break
		}
	}
	return f.focusField(idx)
}

// focusedChoice reports whether the focused field is an option picker.
func (f *recordForm) focusedChoice() bool {
	return len(f.fields) > 0 && f.fields[f.focus].kind == fieldChoice
}

// cycle steps the focused option picker by delta.
func (f *recordForm) cycle(delta int) {
	if !f.focusedChoice() {
		return
	}
	field := &f.fields[f.focus]
	n := len(field.options)
	if n == 0 {
		return
	}
	field.choice = (field.choice + delta + n) % n
	f.err = ""
}

// update forwards msg to the focused text input.
func (f *recordForm) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	field := &f.fields[f.focus]
	if field.kind != fieldText || field.readOnly {
		return nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	if _, ok := msg.(tea.KeyPressMsg); ok {
		f.err = ""
	}
	return cmd
}

// itemDraft validates the form as an item.
func (f *recordForm) itemDraft() (domain.Item, error) {
	item := domain.Item{
		Name:   f.value("name"),
		Email:  f.value("email"),
		Role:   domain.Role(f.value("role")),
		Status: domain.Status(f.value("status")),
	}.Normalize()
	return item, item.Validate()
}

// employeeDraft validates the form as an employee.
func (f *recordForm) employeeDraft() (domain.Employee, error) {
	emp := domain.Employee{
		Name:       f.value("name"),
		Email:      f.value("email"),
		Phone:      f.value("phone"),
		Position:   f.value("position"),
		Department: domain.Department(f.value("department")),
		HireDate:   domain.Date(f.value("hireDate")),
		Status:     domain.Status(f.value("status")),
	}.Normalize()
	if err := emp.Validate(); err != nil {
		return emp, err
	}
	date, err := domain.ParseDate(emp.HireDate.String())
	if err != nil {
		return emp, err
	}
	emp.HireDate = date
	return emp, nil
}

// opportunityDraft validates the form as an opportunity.
func (f *recordForm) opportunityDraft() (domain.Opportunity, error) {
	opp := domain.Opportunity{
		Title:       f.value("title"),
		Client:      f.value("client"),
		Status:      domain.Stage(f.value("status")),
		Priority:    domain.Priority(f.value("priority")),
		Deadline:    domain.Date(f.value("deadline")),
		Description: f.value("description"),
	}
	raw := strings.ReplaceAll(f.value("value"), ",", "")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return opp, domain.ErrInvalidValue
	}
	opp.Value = value
	opp = opp.Normalize()
	if err := opp.Validate(); err != nil {
		return opp, err
	}
	date, err := domain.ParseDate(opp.Deadline.String())
	if err != nil {
		return opp, err
	}
	opp.Deadline = date
	return opp, nil
}

// view renders the form body at width.
func (f *recordForm) view(width int, accent, muted color.Color) string {
	labelStyle := lipgloss.NewStyle().Foreground(muted).Width(12)
	focusLabel := lipgloss.NewStyle().Foreground(accent).Bold(true).Width(12)
	optionStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	readOnlyStyle := lipgloss.NewStyle().Foreground(muted).Italic(true)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	fieldWidth := max(16, width-16)
	lines := make([]string, 0, len(f.fields)+2)
	for idx, field := range f.fields {
		label := labelStyle.Render(field.label)
		if idx == f.focus {
			label = focusLabel.Render(field.label)
		}
		var value string
		switch {
		case field.readOnly:
			value = readOnlyStyle.Render(field.value() + " (fixed)")
		case field.kind == fieldChoice && idx == f.focus:
			value = optionStyle.Render("‹ " + field.value() + " ›")
		case field.kind == fieldChoice:
			value = field.value()
		default:
			in := field.input
			in.SetWidth(fieldWidth)
			value = in.View()
		}
		lines = append(lines, label+" "+value)
	}
	if f.err != "" {
		lines = append(lines, "", errStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

// formError renders a validation failure for the form footer.
func formError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("check the form: %v", err)
}
