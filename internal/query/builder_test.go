package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-backend/internal/domain"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestBuildDefaults(t *testing.T) {
	spec, err := Build(Params{})
	require.NoError(t, err)

	assert.Nil(t, spec.Status)
	assert.Nil(t, spec.Priority)
	assert.Equal(t, "created_at", spec.SortBy)
	assert.True(t, spec.Descending)
	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 10, spec.Size)
	assert.Equal(t, int64(0), spec.Skip)
	assert.Equal(t, int64(10), spec.Limit)
}

func TestBuildFilters(t *testing.T) {
	spec, err := Build(Params{
		Status:   strPtr("in_progress"),
		Priority: strPtr("high"),
	})
	require.NoError(t, err)

	require.NotNil(t, spec.Status)
	assert.Equal(t, domain.StatusInProgress, *spec.Status)
	require.NotNil(t, spec.Priority)
	assert.Equal(t, domain.PriorityHigh, *spec.Priority)
}

func TestBuildInvalidFilters(t *testing.T) {
	_, err := Build(Params{Status: strPtr("done")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFilter))

	_, err = Build(Params{Priority: strPtr("urgent")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidFilter))
}

func TestBuildSort(t *testing.T) {
	for _, field := range []string{"title", "status", "priority", "due_date", "created_at", "updated_at"} {
		spec, err := Build(Params{SortBy: field})
		require.NoError(t, err, field)
		assert.Equal(t, field, spec.SortBy)
	}

	spec, err := Build(Params{SortOrder: "asc"})
	require.NoError(t, err)
	assert.False(t, spec.Descending)

	spec, err = Build(Params{SortOrder: "desc"})
	require.NoError(t, err)
	assert.True(t, spec.Descending)
}

func TestBuildInvalidSort(t *testing.T) {
	_, err := Build(Params{SortBy: "id"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSortField))

	_, err = Build(Params{SortBy: "description"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSortField))

	_, err = Build(Params{SortOrder: "descending"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidSortOrder))
}

func TestBuildPagination(t *testing.T) {
	spec, err := Build(Params{Page: intPtr(3), Size: intPtr(25)})
	require.NoError(t, err)

	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 25, spec.Size)
	assert.Equal(t, int64(50), spec.Skip)
	assert.Equal(t, int64(25), spec.Limit)
}

func TestBuildPaginationBounds(t *testing.T) {
	// Out-of-range values error instead of being clamped.
	for _, p := range []Params{
		{Page: intPtr(0)},
		{Page: intPtr(-1)},
		{Size: intPtr(0)},
		{Size: intPtr(-5)},
		{Size: intPtr(101)},
	} {
		_, err := Build(p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidPagination))
	}

	// Bounds themselves are valid.
	spec, err := Build(Params{Page: intPtr(1), Size: intPtr(100)})
	require.NoError(t, err)
	assert.Equal(t, int64(100), spec.Limit)
}

func TestBuildDeterministic(t *testing.T) {
	params := Params{
		Status:    strPtr("pending"),
		Priority:  strPtr("low"),
		SortBy:    "due_date",
		SortOrder: "asc",
		Page:      intPtr(2),
		Size:      intPtr(20),
	}

	first, err := Build(params)
	require.NoError(t, err)
	second, err := Build(params)
	require.NoError(t, err)

	assert.Equal(t, *first.Status, *second.Status)
	assert.Equal(t, *first.Priority, *second.Priority)
	assert.Equal(t, first.SortBy, second.SortBy)
	assert.Equal(t, first.Descending, second.Descending)
	assert.Equal(t, first.Skip, second.Skip)
	assert.Equal(t, first.Limit, second.Limit)
}
