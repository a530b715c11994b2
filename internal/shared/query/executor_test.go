package query

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubHandle registra qué terminal se invocó y con qué límites.
type stubHandle struct {
	results []string
	err     error

	listCalls     int
	listPageCalls [][2]int
	countCalls    int
}

func (h *stubHandle) List(ctx context.Context) ([]string, error) {
	h.listCalls++
	return h.results, h.err
}

func (h *stubHandle) ListPage(ctx context.Context, first, max int) ([]string, error) {
	h.listPageCalls = append(h.listPageCalls, [2]int{first, max})
	return h.results, h.err
}

func (h *stubHandle) Count(ctx context.Context) (int64, error) {
	h.countCalls++
	return int64(len(h.results)), h.err
}

func intPtr(n int) *int { return &n }

func TestList_UnboundedWhenBothLimitsAbsent(t *testing.T) {
	h := &stubHandle{results: []string{"a", "b"}}

	results, err := List[string](context.Background(), h, Page{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, results)
	assert.Equal(t, 1, h.listCalls)
	assert.Empty(t, h.listPageCalls)
}

func TestList_PagedWhenBothLimitsPresent(t *testing.T) {
	h := &stubHandle{}

	_, err := List[string](context.Background(), h, Page{First: intPtr(10), Max: intPtr(20)})

	assert.NoError(t, err)
	assert.Equal(t, 0, h.listCalls)
	assert.Equal(t, [][2]int{{10, 20}}, h.listPageCalls)
}

func TestList_FirstAloneDefaultsMaxToUnlimited(t *testing.T) {
	h := &stubHandle{}

	_, err := List[string](context.Background(), h, Page{First: intPtr(10)})

	assert.NoError(t, err)
	assert.Equal(t, [][2]int{{10, math.MaxInt32}}, h.listPageCalls)
}

func TestList_MaxAloneDefaultsFirstToZero(t *testing.T) {
	h := &stubHandle{}

	_, err := List[string](context.Background(), h, Page{Max: intPtr(20)})

	assert.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 20}}, h.listPageCalls)
}

func TestList_EngineFailureIsWrapped(t *testing.T) {
	cause := errors.New("syntax error near ORDER")
	h := &stubHandle{err: cause}

	_, err := List[string](context.Background(), h, Page{})

	var engineErr *EngineError
	assert.ErrorAs(t, err, &engineErr)
	assert.ErrorIs(t, err, cause)
}

func TestCount_EngineFailureIsWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	h := &stubHandle{err: cause}

	_, err := Count[string](context.Background(), h)

	var engineErr *EngineError
	assert.ErrorAs(t, err, &engineErr)
	assert.ErrorIs(t, err, cause)
}

func TestCount_ReturnsCardinality(t *testing.T) {
	h := &stubHandle{results: []string{"a", "b", "c"}}

	n, err := Count[string](context.Background(), h)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, 1, h.countCalls)
}
