package view

// ActiveMarker is the state class toggled on page sections and nav controls.
const ActiveMarker = "active"

// View abstracts the hosting document. Implementations must treat missing
// elements as silent no-ops: writes are dropped and reads return "".
type View interface {
	// Exists reports whether an element with the identifier is present.
	Exists(id string) bool
	// SetVisible toggles the active marker on the page section id.
	SetVisible(id string, visible bool)
	// SetActive toggles the active marker on every nav control whose
	// destination is target.
	SetActive(target string, active bool)
	// SetText replaces the text content of the element.
	SetText(id, text string)
	// Value returns the current value of a form control.
	Value(id string) string
	// Selected returns the value of the checked option in a radio group, or ""
	// when nothing is checked.
	Selected(group string) string
	// Reset clears every control owned by the form.
	Reset(formID string)
	// Alert shows a blocking acknowledgment dialog.
	Alert(message string)
}
