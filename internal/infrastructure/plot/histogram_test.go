package plot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"dlfx/internal/domain/entity"
)

func TestStats_PerChannel(t *testing.T) {
	arr := &entity.Array{Shape: []int{1, 2, 3}, Data: []float64{0, 5, 10, 4, 5, 20}}
	stats, err := Stats(arr)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	require.Equal(t, 0.0, stats[0].Min)
	require.Equal(t, 4.0, stats[0].Max)
	require.Equal(t, 5.0, stats[1].Mean)
	require.Equal(t, 20.0, stats[2].Max)
}

func TestWriteHistograms(t *testing.T) {
	arr := &entity.Array{Shape: []int{2, 2}, Data: []float64{0, 1, 2, 3}}
	var buf bytes.Buffer
	require.NoError(t, WriteHistograms(&buf, arr, 4, 10))
	require.Contains(t, buf.String(), "channel 0: min=0 max=3")

	buf.Reset()
	require.NoError(t, WriteHistograms(&buf, &entity.Array{Shape: []int{1, 2}, Data: []float64{7, 7}}, 4, 10))
	require.Contains(t, buf.String(), "constant channel")
}
