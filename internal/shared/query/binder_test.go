package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Holder de prueba con los tres sabores de campo: escalar, marcador y lista.
type testFilter struct {
	Name *string
	Flag *bool
	Tags []string
	Num  *int
}

func strPtr(s string) *string { return &s }

var testDescriptors = []Descriptor[testFilter]{
	{Param: "name", Assign: func(q *testFilter, v interface{}) { s := v.(string); q.Name = &s }},
	{Param: "flag", Convert: Boolean, Assign: func(q *testFilter, v interface{}) { b := v.(bool); q.Flag = &b }},
	{Param: "tags", Convert: StringList, Multi: true,
		Assign: func(q *testFilter, v interface{}) { q.Tags = append(q.Tags, v.([]string)...) }},
	{Param: "num", Convert: Int, Assign: func(q *testFilter, v interface{}) { n := v.(int); q.Num = &n }},
}

func TestBind_AbsentParamsLeaveFieldsUnset(t *testing.T) {
	var q testFilter
	err := Bind(testDescriptors, Params{}, &q)

	assert.NoError(t, err)
	assert.Nil(t, q.Name)
	assert.Nil(t, q.Flag)
	assert.Nil(t, q.Num)
	assert.Empty(t, q.Tags)
}

func TestBind_UnknownParamsAreIgnored(t *testing.T) {
	var q testFilter
	err := Bind(testDescriptors, Params{"somethingElse": {"x"}}, &q)

	assert.NoError(t, err)
	assert.Nil(t, q.Name)
}

func TestBind_AssignsTypedValues(t *testing.T) {
	var q testFilter
	err := Bind(testDescriptors, Params{
		"name": {"failedJob"},
		"flag": {"true"},
		"num":  {"7"},
	}, &q)

	assert.NoError(t, err)
	assert.Equal(t, strPtr("failedJob"), q.Name)
	assert.NotNil(t, q.Flag)
	assert.True(t, *q.Flag)
	assert.NotNil(t, q.Num)
	assert.Equal(t, 7, *q.Num)
}

func TestBind_NonMultiUsesFirstOccurrence(t *testing.T) {
	var q testFilter
	err := Bind(testDescriptors, Params{"name": {"first", "second"}}, &q)

	assert.NoError(t, err)
	assert.Equal(t, strPtr("first"), q.Name)
}

func TestBind_MultiConvertsEveryOccurrenceInOrder(t *testing.T) {
	var q testFilter
	err := Bind(testDescriptors, Params{"tags": {"a,b", "c"}}, &q)

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, q.Tags)
}

func TestBind_ConversionFailureAborts(t *testing.T) {
	var q testFilter
	err := Bind(testDescriptors, Params{"flag": {"notabool"}}, &q)

	assert.Error(t, err)
	var convErr *ConversionError
	assert.ErrorAs(t, err, &convErr)
	assert.Equal(t, "flag", convErr.Param)
	assert.Equal(t, "notabool", convErr.Value)
}

func TestBind_NilConverterDefaultsToString(t *testing.T) {
	descs := []Descriptor[testFilter]{
		{Param: "name", Assign: func(q *testFilter, v interface{}) { s := v.(string); q.Name = &s }},
	}

	var q testFilter
	err := Bind(descs, Params{"name": {"raw"}}, &q)

	assert.NoError(t, err)
	assert.Equal(t, strPtr("raw"), q.Name)
}
