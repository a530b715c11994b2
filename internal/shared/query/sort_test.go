package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Sortable de prueba con una whitelist fija.
type testSortable struct{}

func (testSortable) QueryType() string { return "test" }
func (testSortable) IsValidSortField(field string) bool {
	return field == "createTime" || field == "endTime"
}

func TestParseSort_NoParamsNoCriteria(t *testing.T) {
	criteria, err := ParseSort(Params{})
	assert.NoError(t, err)
	assert.Nil(t, criteria)
}

func TestParseSort_SortByWithoutOrderDefaultsToAsc(t *testing.T) {
	criteria, err := ParseSort(Params{"sortBy": {"createTime"}})
	assert.NoError(t, err)
	assert.Equal(t, []SortCriterion{{Field: "createTime", Order: SortAsc}}, criteria)
}

func TestParseSort_PairsByPosition(t *testing.T) {
	criteria, err := ParseSort(Params{
		"sortBy":    {"createTime", "endTime", "incidentType"},
		"sortOrder": {"desc", "asc"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []SortCriterion{
		{Field: "createTime", Order: SortDesc},
		{Field: "endTime", Order: SortAsc},
		{Field: "incidentType", Order: SortAsc}, // sin pareja, asc por defecto
	}, criteria)
}

func TestParseSort_OrphanSortOrderIsRejected(t *testing.T) {
	_, err := ParseSort(Params{"sortOrder": {"asc"}})

	var sortErr *SortError
	assert.ErrorAs(t, err, &sortErr)
}

func TestParseSort_InvalidDirectionIsRejected(t *testing.T) {
	_, err := ParseSort(Params{
		"sortBy":    {"createTime"},
		"sortOrder": {"descending"},
	})

	var sortErr *SortError
	assert.ErrorAs(t, err, &sortErr)
	assert.Contains(t, err.Error(), "descending")
}

func TestResolveSort_AcceptsWhitelistedFields(t *testing.T) {
	err := ResolveSort(testSortable{}, []SortCriterion{
		{Field: "createTime", Order: SortAsc},
		{Field: "endTime", Order: SortDesc},
	})
	assert.NoError(t, err)
}

func TestResolveSort_RejectsUnknownField(t *testing.T) {
	err := ResolveSort(testSortable{}, []SortCriterion{
		{Field: "createTime", Order: SortAsc},
		{Field: "bogus", Order: SortAsc},
	})

	var sortErr *SortError
	assert.ErrorAs(t, err, &sortErr)
	assert.Equal(t, "test", sortErr.QueryType)
	assert.Equal(t, "bogus", sortErr.Field)
	assert.Contains(t, err.Error(), "bogus")
}

func TestResolveSort_DuplicateFieldsAreAllowed(t *testing.T) {
	err := ResolveSort(testSortable{}, []SortCriterion{
		{Field: "createTime", Order: SortAsc},
		{Field: "createTime", Order: SortDesc},
	})
	assert.NoError(t, err)
}
