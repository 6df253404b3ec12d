package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSlice(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, MapSlice([]int{1, 2}, strconv.Itoa))

	empty := MapSlice([]int(nil), strconv.Itoa)
	require.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMapSliceWithError(t *testing.T) {
	got, err := MapSliceWithError([]string{"4", "5"}, strconv.Atoi)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, got)

	_, err = MapSliceWithError([]string{"4", "x"}, strconv.Atoi)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 1")
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}
