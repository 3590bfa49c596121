package view

import (
	"sort"
	"strings"
	"sync"
)

// ElementState is the serialisable state of a single element.
type ElementState struct {
	Text   string `json:"text,omitempty"`
	Value  string `json:"value,omitempty"`
	Active bool   `json:"active,omitempty"`
	// Form names the form that owns the control; Reset clears its Value.
	Form string `json:"form,omitempty"`
}

// GroupState is the serialisable state of a radio group.
type GroupState struct {
	Form    string   `json:"form,omitempty"`
	Options []string `json:"options"`
	Checked string   `json:"checked,omitempty"`
}

// Snapshot captures a Memory document so hosts without a live document can
// carry it across turns (for example inside an HTTP session).
type Snapshot struct {
	Elements map[string]ElementState `json:"elements,omitempty"`
	Nav      map[string]bool         `json:"nav,omitempty"`
	Groups   map[string]GroupState   `json:"groups,omitempty"`
	Alerts   []string                `json:"alerts,omitempty"`
}

// MemoryOption configures a Memory document.
type MemoryOption func(*Memory)

// WithAlertHook invokes fn for every Alert in addition to recording it.
func WithAlertHook(fn func(message string)) MemoryOption {
	return func(m *Memory) {
		m.onAlert = fn
	}
}

// Memory is an in-process document. Elements must be declared before use;
// operations on undeclared identifiers are no-ops, mirroring a page whose
// markup lacks the element.
type Memory struct {
	mu       sync.RWMutex
	elements map[string]*ElementState
	nav      map[string]bool
	groups   map[string]*GroupState
	alerts   []string
	onAlert  func(string)
}

var _ View = (*Memory)(nil)

// NewMemory constructs an empty document.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		elements: make(map[string]*ElementState),
		nav:      make(map[string]bool),
		groups:   make(map[string]*GroupState),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// AddElement declares a plain element (section, error slot, summary slot).
func (m *Memory) AddElement(ids ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := m.elements[id]; !ok {
			m.elements[id] = &ElementState{}
		}
	}
	return m
}

// AddNav declares a nav control pointing at target.
func (m *Memory) AddNav(targets ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := m.nav[target]; !ok {
			m.nav[target] = false
		}
	}
	return m
}

// AddControl declares form controls owned by formID. The form element itself
// is declared as well.
func (m *Memory) AddControl(formID string, ids ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if formID != "" {
		if _, ok := m.elements[formID]; !ok {
			m.elements[formID] = &ElementState{}
		}
	}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		el, ok := m.elements[id]
		if !ok {
			el = &ElementState{}
			m.elements[id] = el
		}
		el.Form = formID
	}
	return m
}

// AddRadioGroup declares an exclusive option group owned by formID.
func (m *Memory) AddRadioGroup(formID, group string, options ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	group = strings.TrimSpace(group)
	if group == "" {
		return m
	}
	m.groups[group] = &GroupState{
		Form:    formID,
		Options: append([]string(nil), options...),
	}
	return m
}

// Exists implements View. Radio groups count as elements.
func (m *Memory) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.elements[id]; ok {
		return true
	}
	_, ok := m.groups[id]
	return ok
}

// SetVisible implements View.
func (m *Memory) SetVisible(id string, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.elements[id]; ok {
		el.Active = visible
	}
}

// SetActive implements View.
func (m *Memory) SetActive(target string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nav[target]; ok {
		m.nav[target] = active
	}
}

// SetText implements View.
func (m *Memory) SetText(id, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.elements[id]; ok {
		el.Text = text
	}
}

// Value implements View.
func (m *Memory) Value(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if el, ok := m.elements[id]; ok {
		return el.Value
	}
	return ""
}

// Selected implements View.
func (m *Memory) Selected(group string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.groups[group]; ok {
		return g.Checked
	}
	return ""
}

// Reset implements View.
func (m *Memory) Reset(formID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.elements[formID]; !ok {
		return
	}
	for _, el := range m.elements {
		if el.Form == formID {
			el.Value = ""
		}
	}
	for _, g := range m.groups {
		if g.Form == formID {
			g.Checked = ""
		}
	}
}

// Alert implements View. Messages are recorded in order.
func (m *Memory) Alert(message string) {
	m.mu.Lock()
	m.alerts = append(m.alerts, message)
	hook := m.onAlert
	m.mu.Unlock()

	if hook != nil {
		hook(message)
	}
}

// SetValue types a value into a form control, as a user would.
func (m *Memory) SetValue(id, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.elements[id]; ok {
		el.Value = value
	}
}

// Check selects option in group. Unknown options and groups are rejected.
func (m *Memory) Check(group, option string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[group]
	if !ok {
		return false
	}
	if option == "" {
		g.Checked = ""
		return true
	}
	for _, candidate := range g.Options {
		if candidate == option {
			g.Checked = option
			return true
		}
	}
	return false
}

// Text returns the text content of id.
func (m *Memory) Text(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if el, ok := m.elements[id]; ok {
		return el.Text
	}
	return ""
}

// Visible reports whether the section id carries the active marker.
func (m *Memory) Visible(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	el, ok := m.elements[id]
	return ok && el.Active
}

// VisibleSections lists the sections currently carrying the active marker.
func (m *Memory) VisibleSections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for id, el := range m.elements {
		if el.Active {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// NavActive reports whether the nav control for target is highlighted.
func (m *Memory) NavActive(target string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nav[target]
}

// ActiveNav lists the highlighted nav targets.
func (m *Memory) ActiveNav() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for target, active := range m.nav {
		if active {
			out = append(out, target)
		}
	}
	sort.Strings(out)
	return out
}

// Alerts returns a copy of every recorded alert.
func (m *Memory) Alerts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.alerts...)
}

// DrainAlerts returns the recorded alerts and forgets them.
func (m *Memory) DrainAlerts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.alerts
	m.alerts = nil
	return out
}

// Snapshot exports the document state.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Elements: make(map[string]ElementState, len(m.elements)),
		Nav:      make(map[string]bool, len(m.nav)),
		Groups:   make(map[string]GroupState, len(m.groups)),
		Alerts:   append([]string(nil), m.alerts...),
	}
	for id, el := range m.elements {
		snap.Elements[id] = *el
	}
	for target, active := range m.nav {
		snap.Nav[target] = active
	}
	for name, g := range m.groups {
		copied := *g
		copied.Options = append([]string(nil), g.Options...)
		snap.Groups[name] = copied
	}
	return snap
}

// Restore replaces the document state with snap. Elements absent from snap
// disappear, matching a page reload with different markup.
func (m *Memory) Restore(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.elements = make(map[string]*ElementState, len(snap.Elements))
	for id, el := range snap.Elements {
		copied := el
		m.elements[id] = &copied
	}
	m.nav = make(map[string]bool, len(snap.Nav))
	for target, active := range snap.Nav {
		m.nav[target] = active
	}
	m.groups = make(map[string]*GroupState, len(snap.Groups))
	for name, g := range snap.Groups {
		copied := g
		copied.Options = append([]string(nil), g.Options...)
		m.groups[name] = &copied
	}
	m.alerts = append([]string(nil), snap.Alerts...)
}
