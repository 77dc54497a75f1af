package chartfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mon-martins/hsmsnap"
)

func blinky() *hsmsnap.Chart {
	return &hsmsnap.Chart{
		ID:      "blinky",
		Initial: "off",
		States: []*hsmsnap.StateDef{
			{ID: "off", On: map[string]hsmsnap.StateID{"TIMEOUT": "on"}},
			{ID: "on", On: map[string]hsmsnap.StateID{"TIMEOUT": "off"}},
		},
	}
}

func TestChartRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "blinky.yaml")

	require.NoError(t, SaveChart(path, blinky()))

	got, err := LoadChart(path)
	require.NoError(t, err)
	assert.Equal(t, "blinky", got.ID)
	assert.Equal(t, hsmsnap.StateID("off"), got.Initial)
	require.Len(t, got.States, 2)
	assert.Equal(t, hsmsnap.StateID("on"), got.States[0].On["TIMEOUT"])

	// The loaded chart must compile as-is.
	_, err = got.Compile()
	require.NoError(t, err)
}

func TestLoadChartMissingFile(t *testing.T) {
	_, err := LoadChart(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadChartBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("states: [broken"), 0o644))

	_, err := LoadChart(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}

func TestLoadChartRejectsInvalidChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	content := `
id: broken
initial: ghost
states:
  - id: a
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadChart(path)
	require.Error(t, err)

	var serr *hsmsnap.StructuralError
	require.ErrorAs(t, err, &serr)
}

func TestSaveChartRejectsInvalidChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	err := SaveChart(path, &hsmsnap.Chart{ID: "m"})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestLayoutRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinky.layout.yaml")
	layout := &hsmsnap.Layout{
		Chart: "blinky",
		Assignments: []hsmsnap.Assignment{
			{State: "off", Bit: 0},
			{State: "on", Bit: 1},
		},
	}

	require.NoError(t, SaveLayout(path, layout))
	assert.Empty(t, layout.Version, "SaveLayout must not mutate its argument")

	got, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, "blinky", got.Chart)
	assert.Equal(t, Fingerprint(layout), got.Version, "saved layout is stamped with its fingerprint")
	assert.Equal(t, layout.Assignments, got.Assignments)
}

func TestSaveLayoutKeepsExplicitVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "l.yaml")
	layout := &hsmsnap.Layout{
		Chart:       "m",
		Version:     "pinned",
		Assignments: []hsmsnap.Assignment{{State: "a", Bit: 0}},
	}
	require.NoError(t, SaveLayout(path, layout))

	got, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, "pinned", got.Version)
}

func TestLoadLayoutRejectsDuplicateBits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	content := `
chart: m
assignments:
  - state: a
    bit: 0
  - state: b
    bit: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadLayout(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bit 0")
}

func TestLoadLayoutRejectsBitOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "range.yaml")
	content := `
chart: m
assignments:
  - state: a
    bit: 64
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadLayout(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside word range")
}

func TestLoadLayoutRequiresChartName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assignments: []\n"), 0o644))

	_, err := LoadLayout(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing chart name")
}

func TestFingerprint(t *testing.T) {
	layout := &hsmsnap.Layout{
		Chart: "m",
		Assignments: []hsmsnap.Assignment{
			{State: "a", Bit: 0},
			{State: "b", Bit: 1},
		},
	}

	fp := Fingerprint(layout)
	assert.Len(t, fp, 16)
	assert.Equal(t, fp, Fingerprint(layout), "fingerprint is deterministic")

	// The version field itself never feeds the fingerprint.
	stamped := *layout
	stamped.Version = fp
	assert.Equal(t, fp, Fingerprint(&stamped))

	// Moving a bit is a contract change and must show.
	moved := &hsmsnap.Layout{
		Chart: "m",
		Assignments: []hsmsnap.Assignment{
			{State: "a", Bit: 0},
			{State: "b", Bit: 2},
		},
	}
	assert.NotEqual(t, fp, Fingerprint(moved))
}
