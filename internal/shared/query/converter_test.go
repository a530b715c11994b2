package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoolean_StrictValues(t *testing.T) {
	v, err := Boolean("true")
	assert.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Boolean("false")
	assert.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestBoolean_RejectsAnythingElse(t *testing.T) {
	// Sensible a mayúsculas y sin alias numéricos
	for _, raw := range []string{"True", "FALSE", "1", "0", "yes", ""} {
		_, err := Boolean(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestStringList_SplitTrimAndDropEmpties(t *testing.T) {
	v, err := StringList(" a, b ,,c,")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, v)
}

func TestStringList_EmptyInputYieldsEmptyList(t *testing.T) {
	v, err := StringList("")
	assert.NoError(t, err)
	assert.Empty(t, v)
}

func TestInt_Conversion(t *testing.T) {
	v, err := Int("42")
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Int("4.2")
	assert.Error(t, err)
}

func TestConversionError_NamesParamAndValue(t *testing.T) {
	cause := errors.New("expected \"true\" or \"false\"")
	err := &ConversionError{Param: "open", Value: "notabool", Err: cause}

	assert.Contains(t, err.Error(), "open")
	assert.Contains(t, err.Error(), "notabool")
	assert.ErrorIs(t, err, cause)
}
