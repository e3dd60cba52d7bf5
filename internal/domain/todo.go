package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status represents the completion state of a todo.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Priority represents the urgency of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is one of the defined constants.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// Field length limits enforced by Validate.
const (
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
)

// Todo is the stored representation of a todo item.
type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      Status             `bson:"status" json:"status"`
	Priority    Priority           `bson:"priority" json:"priority"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Overdue reports whether the todo is past its due date and not yet
// completed. Todos without a due date are never overdue.
func (t *Todo) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}

// Validate checks the todo's fields against the entity constraints. It
// returns a *ValidationError naming the first offending field.
func (t *Todo) Validate() error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "must be one of pending, in_progress, completed"}
	}
	if !t.Priority.IsValid() {
		return &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	return nil
}

// ValidateTitle enforces the title length constraint (1..200 characters).
func ValidateTitle(title string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len([]rune(title)) > TitleMaxLen {
		return &ValidationError{Field: "title", Reason: "must be at most 200 characters"}
	}
	return nil
}

// ValidateDescription enforces the description length constraint
// (at most 1000 characters).
func ValidateDescription(description string) error {
	if len([]rune(description)) > DescriptionMaxLen {
		return &ValidationError{Field: "description", Reason: "must be at most 1000 characters"}
	}
	return nil
}

// TodoPatch carries a partial update. Nil fields are left untouched, which
// keeps "absent" distinct from "set to the zero value".
type TodoPatch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
}

// IsEmpty reports whether the patch carries no field at all.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil
}

// Validate checks only the fields present in the patch.
func (p TodoPatch) Validate() error {
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := ValidateDescription(*p.Description); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.IsValid() {
		return &ValidationError{Field: "status", Reason: "must be one of pending, in_progress, completed"}
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	return nil
}
