package handback

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
)

func sample() *diagram.Diagram {
	return &diagram.Diagram{Layers: []diagram.Layer{
		{
			{Pred: 0.9, State: []int64{1, 0}},
			{Pred: 0.2, State: []int64{0, 1}},
			{Pred: 0.501, State: []int64{2, 2}},
		},
		{
			{Pred: 0.1, OneParents: []int{0}, State: []int64{3}},
		},
	}}
}

func TestBuild(t *testing.T) {
	h := Build(sample(), diagram.DefaultPolicy())

	require.Len(t, h.Layers, 2)
	assert.Equal(t, [][]int64{{1, 0}, {2, 2}}, h.Layers[0])
	assert.Empty(t, h.Layers[1])
	assert.Equal(t, 2, h.NumStates())
}

func TestWriterRoundTrip(t *testing.T) {
	h := Build(sample(), diagram.DefaultPolicy())

	for _, compress := range []bool{false, true} {
		w, err := NewWriter(t.TempDir(), compress)
		require.NoError(t, err)

		require.NoError(t, w.Write(7, h))
		path := w.Path(7)
		if compress {
			assert.FileExists(t, path)
			assert.Equal(t, ".sz", path[len(path)-3:])
		}

		back, err := Read(path)
		require.NoError(t, err)
		assert.Equal(t, h.Layers[0], back.Layers[0])
		assert.Empty(t, back.Layers[1])

		_, err = os.Stat(path + ".new")
		assert.True(t, os.IsNotExist(err), "temporary file left behind")
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/1.json.sz"
	require.NoError(t, os.WriteFile(path, []byte("not snappy"), 0644))

	_, err := Read(path)
	assert.Error(t, err)
}
