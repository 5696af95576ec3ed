package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/trafficpredict/core/prediction"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sc, err := Load(f)
		require.NoError(t, err, f)
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestScenarioSource(t *testing.T) {
	r := 0.25
	assert.Equal(t, 0.25, Scenario{Random: &r}.Source().Float64())

	seq := Scenario{Sequence: []float64{0.1, 0.2}}.Source()
	assert.Equal(t, 0.1, seq.Float64())
	assert.Equal(t, 0.2, seq.Float64())

	a := Scenario{Seed: 7}.Source()
	b := prediction.NewSeededSource(7)
	assert.Equal(t, b.Float64(), a.Float64())
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("no-file.yaml")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(":"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)
}
