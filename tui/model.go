// Package tui is the interactive terminal front end for the contact list.
//
// The Model runs inside the bubbletea event loop and calls the contact
// service synchronously, so it must not be shared between goroutines.
package tui

import (
	"contactbook/contact"
	"contactbook/errs"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldName = iota
	fieldPhone
	fieldEmail
	focusTable
)

const (
	msgAdded         = "Contact added successfully!"
	msgUpdated       = "Contact updated successfully!"
	msgDeleted       = "Contact deleted successfully!"
	msgSelectUpdate  = "Please select a contact to update."
	msgSelectDelete  = "Please select a contact to delete."
	msgClearToAdd    = "Clear the form to add a new contact."
	msgConfirmDelete = "Are you sure you want to delete the selected contact? (y/n)"
)

// Affordances reports which actions are currently offered.
type Affordances struct {
	Add    bool
	Update bool
	Delete bool
	Clear  bool
}

// AffordancesFor derives the enabled actions from the selection state alone.
func AffordancesFor(selected bool) Affordances {
	return Affordances{
		Add:    !selected,
		Update: selected,
		Delete: selected,
		Clear:  true,
	}
}

type Option func(m *Model)

// WithLoadError shows err on the status line when the model starts, so a
// failed load is visible before the first edit.
func WithLoadError(err error) Option {
	return func(m *Model) {
		if err != nil {
			m.setError(err)
		}
	}
}

type Model struct {
	ctx context.Context
	svc contact.Service

	inputs []textinput.Model
	table  table.Model
	focus  int

	contacts   []contact.Contact
	selectedID string
	confirming bool

	status    string
	statusErr bool
	quitting  bool
}

var _ tea.Model = Model{}

func New(ctx context.Context, svc contact.Service, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		svc:    svc,
		inputs: newInputs(),
		table: table.New(
			table.WithColumns([]table.Column{
				{Title: "Name", Width: 24},
				{Title: "Phone", Width: 16},
				{Title: "Email", Width: 28},
			}),
			table.WithHeight(10),
		),
	}
	m.table.SetStyles(tableStyles())
	m.setFocus(fieldName)
	m.refresh()
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func newInputs() []textinput.Model {
	placeholders := []string{"Name", "Phone", "Email (optional)"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		ti := textinput.New()
		ti.Placeholder = p
		ti.Prompt = ""
		ti.CharLimit = 0 // unlimited
		ti.Width = 40
		inputs[i] = ti
	}
	return inputs
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	if key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.confirming {
		switch key.String() {
		case "y", "Y":
			m.confirming = false
			m.deleteSelected()
		case "n", "N", "esc":
			m.confirming = false
			m.status = ""
		}
		return m, nil
	}

	switch key.String() {
	case "tab":
		m.setFocus((m.focus + 1) % (focusTable + 1))
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusTable) % (focusTable + 1))
		return m, nil
	case "ctrl+a":
		m.add()
		return m, nil
	case "ctrl+u":
		m.update()
		return m, nil
	case "ctrl+d":
		m.askDelete()
		return m, nil
	case "ctrl+l", "esc":
		m.clear()
		m.status = ""
		return m, nil
	case "enter":
		if m.focus == focusTable {
			m.selectRow()
		} else {
			m.setFocus(m.focus + 1)
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusTable {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// Affordances returns the actions offered for the current selection.
func (m Model) Affordances() Affordances {
	return AffordancesFor(m.selectedID != "")
}

// Selected returns the selected contact, if any.
func (m Model) Selected() (contact.Contact, bool) {
	for _, c := range m.contacts {
		if c.ID == m.selectedID {
			return c, true
		}
	}
	return contact.Contact{}, false
}

func (m Model) Status() string {
	return m.status
}

func (m *Model) add() {
	if !m.Affordances().Add {
		m.setInfo(msgClearToAdd)
		return
	}

	_, err := m.svc.AddContact(m.ctx, m.formContact())
	if errs.ErrorCode(err) == errs.EINVALID {
		m.setError(err)
		return
	}
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.clear()
	m.setInfo(msgAdded)
}

func (m *Model) update() {
	if !m.Affordances().Update {
		m.setInfo(msgSelectUpdate)
		return
	}

	_, err := m.svc.UpdateContact(m.ctx, m.selectedID, m.formContact())
	if errs.ErrorCode(err) == errs.EINVALID {
		m.setError(err)
		return
	}
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.clear()
	m.setInfo(msgUpdated)
}

func (m *Model) askDelete() {
	if !m.Affordances().Delete {
		m.setInfo(msgSelectDelete)
		return
	}
	m.confirming = true
	m.setInfo(msgConfirmDelete)
}

func (m *Model) deleteSelected() {
	err := m.svc.DeleteContact(m.ctx, m.selectedID)
	m.refresh()
	if err != nil {
		m.setError(err)
		return
	}
	m.clear()
	m.setInfo(msgDeleted)
}

func (m *Model) selectRow() {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.contacts) {
		return
	}
	c := m.contacts[i]
	m.selectedID = c.ID
	m.inputs[fieldName].SetValue(c.Name)
	m.inputs[fieldPhone].SetValue(c.Phone)
	m.inputs[fieldEmail].SetValue(c.Email)
}

func (m *Model) clear() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.selectedID = ""
	m.confirming = false
}

// refresh re-reads the list from the service and drops a selection whose
// contact no longer exists.
func (m *Model) refresh() {
	contacts, err := m.svc.ListContacts(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	m.contacts = contacts

	rows := make([]table.Row, len(contacts))
	for i, c := range contacts {
		rows[i] = table.Row{c.Name, c.Phone, c.Email}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}

	if _, ok := m.Selected(); !ok {
		m.selectedID = ""
	}
}

func (m *Model) setFocus(f int) {
	m.focus = f
	for i := range m.inputs {
		if i == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if f == focusTable {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) formContact() contact.Contact {
	return contact.Contact{
		Name:  m.inputs[fieldName].Value(),
		Phone: m.inputs[fieldPhone].Value(),
		Email: m.inputs[fieldEmail].Value(),
	}
}

func (m *Model) setInfo(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = errorText(err)
	m.statusErr = true
}

// errorText renders internal errors as "<message>: <cause>" and everything
// else as the user facing message.
func errorText(err error) string {
	var appErr *errs.Error
	if errs.ErrorCode(err) == errs.EINTERNAL && errors.As(err, &appErr) && appErr.Err != nil {
		return fmt.Sprintf("%s: %v", strings.TrimSuffix(appErr.Message, "."), appErr.Err)
	}
	return errs.ErrorMessage(err)
}
