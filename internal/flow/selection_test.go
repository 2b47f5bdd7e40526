package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonotes/internal/domain"
)

func sampleSelection() *Selection {
	return NewSelection([]Item{
		{ID: 11, Title: "Cafe"},
		{ID: 22, Title: "Office"},
		{ID: 33, Title: "Gym"},
	})
}

func TestSelectionLabels(t *testing.T) {
	sel := sampleSelection()
	assert.Equal(t, []string{"1 Cafe", "2 Office", "3 Gym"}, sel.Labels())
	assert.Equal(t, 3, sel.Len())
}

func TestSelectionResolveLabel(t *testing.T) {
	row, err := sampleSelection().Resolve("2 Office")
	require.NoError(t, err)
	assert.Equal(t, int64(22), row.ID)
}

func TestSelectionResolveOrdinal(t *testing.T) {
	row, err := sampleSelection().Resolve("3")
	require.NoError(t, err)
	assert.Equal(t, int64(33), row.ID)
}

func TestSelectionResolveInvalid(t *testing.T) {
	sel := sampleSelection()
	for _, text := range []string{"", "0", "4", "-1", "Cafe", "2 Gym", "nope"} {
		_, err := sel.Resolve(text)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "input %q", text)
	}
}

func TestSelectionResolveTrimsSpace(t *testing.T) {
	row, err := sampleSelection().Resolve("  1  ")
	require.NoError(t, err)
	assert.Equal(t, int64(11), row.ID)
}
