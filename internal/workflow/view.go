package workflow

import (
	"time"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/edit"
)

// Notification levels
const (
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification is a user-visible outcome of a workflow step
type Notification struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func (o *Orchestrator) notifyLocked(level, message string) {
	o.notifications = append(o.notifications, Notification{Level: level, Message: message, At: time.Now()})
	if over := len(o.notifications) - o.maxNotes; over > 0 {
		o.notifications = append([]Notification{}, o.notifications[over:]...)
	}
}

// Notifications returns the recorded notifications, oldest first
func (o *Orchestrator) Notifications() []Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Notification{}, o.notifications...)
}

// MetafieldView is a metafield row with its feedback cell, if any
type MetafieldView struct {
	edit.MetafieldRow
	Error    *edit.Cell      `json:"error,omitempty"`
	Severity domain.Severity `json:"severity,omitempty"`
}

// FieldView is the feedback of a summary-level field
type FieldView struct {
	edit.Cell
	Severity domain.Severity `json:"severity"`
}

// View is a read-only snapshot of the session for rendering
type View struct {
	State          domain.WorkflowState           `json:"state"`
	AccountID      int64                          `json:"accountId,omitempty"`
	ProductID      string                         `json:"productId,omitempty"`
	Loaded         bool                           `json:"loaded"`
	Summary        *edit.EditableSummary          `json:"summary,omitempty"`
	Status         string                         `json:"status,omitempty"`
	Handle         string                         `json:"handle,omitempty"`
	TagOptions     []string                       `json:"tagOptions"`
	Metafields     []MetafieldView                `json:"metafields"`
	FieldErrors    map[string]FieldView           `json:"fieldErrors"`
	Counts         map[domain.Severity]int        `json:"counts"`
	LastValidation *edit.ValidationOutcome        `json:"lastValidation,omitempty"`
	Variants       []domain.Variant               `json:"variants"`
	Images         []domain.Image                 `json:"images"`
	Dirty          []string                       `json:"dirty"`
	Notifications  []Notification                 `json:"notifications"`
	Namespaces     map[string][]edit.MetafieldRow `json:"metafieldsByNamespace,omitempty"`
}

// Snapshot returns the current view of the session
func (o *Orchestrator) Snapshot() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := View{
		State:         o.stateLocked(),
		AccountID:     o.accountID,
		ProductID:     o.productID,
		TagOptions:    []string{},
		Metafields:    []MetafieldView{},
		FieldErrors:   map[string]FieldView{},
		Variants:      []domain.Variant{},
		Images:        []domain.Image{},
		Dirty:         []string{},
		Notifications: append([]Notification{}, o.notifications...),
	}
	if o.session == nil {
		return v
	}

	s := o.session
	summary := s.Summary()
	original := s.Original()
	errs := s.Errors()

	v.Loaded = true
	v.Summary = &summary
	if original.Summary != nil {
		v.Status = original.Summary.Status
		v.Handle = original.Summary.Handle
	}
	v.TagOptions = s.TagOptions()
	for _, row := range s.Metafields() {
		mv := MetafieldView{MetafieldRow: row}
		if c, ok := errs.MetafieldCell(row.Index, "value"); ok {
			cell := c
			mv.Error = &cell
			mv.Severity = c.Severity()
		}
		v.Metafields = append(v.Metafields, mv)
	}
	for field, c := range s.FieldErrors() {
		v.FieldErrors[field] = FieldView{Cell: c, Severity: c.Severity()}
	}
	v.Counts = errs.Counts()
	v.LastValidation = s.LastValidation()
	v.Variants = append(v.Variants, original.Variants...)
	v.Images = append(v.Images, original.Images...)
	if dirty := s.Dirty(); dirty != nil {
		v.Dirty = dirty
	}
	v.Namespaces = s.MetafieldsByNamespace()
	return v
}
