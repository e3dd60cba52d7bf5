package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusInProgress.IsValid())
	assert.True(t, StatusCompleted.IsValid())

	assert.False(t, Status("done").IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("PENDING").IsValid())
}

func TestPriorityIsValid(t *testing.T) {
	assert.True(t, PriorityLow.IsValid())
	assert.True(t, PriorityMedium.IsValid())
	assert.True(t, PriorityHigh.IsValid())

	assert.False(t, Priority("urgent").IsValid())
	assert.False(t, Priority("").IsValid())
}

func TestTodoValidate(t *testing.T) {
	valid := Todo{
		Title:    "Buy milk",
		Status:   StatusPending,
		Priority: PriorityMedium,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Todo)
		field  string
	}{
		{"empty title", func(td *Todo) { td.Title = "" }, "title"},
		{"title too long", func(td *Todo) { td.Title = strings.Repeat("x", 201) }, "title"},
		{"description too long", func(td *Todo) { td.Description = strings.Repeat("x", 1001) }, "description"},
		{"unknown status", func(td *Todo) { td.Status = "done" }, "status"},
		{"unknown priority", func(td *Todo) { td.Priority = "urgent" }, "priority"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			todo := valid
			tc.mutate(&todo)

			err := todo.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestTodoValidateBoundaryLengths(t *testing.T) {
	todo := Todo{
		Title:       strings.Repeat("x", 200),
		Description: strings.Repeat("y", 1000),
		Status:      StatusPending,
		Priority:    PriorityLow,
	}
	assert.NoError(t, todo.Validate())
}

func TestTodoOverdue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		todo    Todo
		overdue bool
	}{
		{"past due, pending", Todo{DueDate: &past, Status: StatusPending}, true},
		{"past due, in progress", Todo{DueDate: &past, Status: StatusInProgress}, true},
		{"past due, completed", Todo{DueDate: &past, Status: StatusCompleted}, false},
		{"future due, pending", Todo{DueDate: &future, Status: StatusPending}, false},
		{"no due date", Todo{Status: StatusPending}, false},
		{"due exactly now", Todo{DueDate: &now, Status: StatusPending}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overdue, tc.todo.Overdue(now))
		})
	}
}

func TestTodoPatchIsEmpty(t *testing.T) {
	assert.True(t, TodoPatch{}.IsEmpty())

	title := "New title"
	assert.False(t, TodoPatch{Title: &title}.IsEmpty())

	due := time.Now()
	assert.False(t, TodoPatch{DueDate: &due}.IsEmpty())
}

func TestTodoPatchValidate(t *testing.T) {
	assert.NoError(t, TodoPatch{}.Validate())

	title := "Buy milk"
	desc := "two liters"
	status := StatusCompleted
	priority := PriorityHigh
	assert.NoError(t, TodoPatch{
		Title:       &title,
		Description: &desc,
		Status:      &status,
		Priority:    &priority,
	}.Validate())

	empty := ""
	err := TodoPatch{Title: &empty}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	badStatus := Status("done")
	err = TodoPatch{Status: &badStatus}.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "status", verr.Field)

	badPriority := Priority("urgent")
	err = TodoPatch{Priority: &badPriority}.Validate()
	require.Error(t, err)
}
