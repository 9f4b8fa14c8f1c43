package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestScanner(t *testing.T, testDir, configDir string) *Scanner {
	t.Helper()
	s, err := NewScanner(Config{TestDir: testDir, ConfigDir: configDir})
	require.NoError(t, err)
	return s
}

func TestNewScannerRequiresTestDir(t *testing.T) {
	_, err := NewScanner(Config{})
	require.Error(t, err)
}

func TestDiscoverResolvesInputAndGroup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "acurite", "01", "sample.json"), `{"model":"X"}`)
	writeFile(t, filepath.Join(dir, "acurite", "01", "sample.cu8"), "iq")

	cases, _, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)

	tc := cases[0]
	assert.Equal(t, "acurite", tc.Protocol)
	assert.Equal(t, "sample", tc.Name)
	assert.Equal(t, filepath.Join(dir, "acurite", "01", "sample.cu8"), tc.InputPath)
}

func TestDiscoverInputExtensionPriority(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "oregon", "sample")
	writeFile(t, base+".json", `{"model":"X"}`)
	writeFile(t, base+".ook", "pulses")
	writeFile(t, base+".cu8", "iq")

	cases, _, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	// .cu8 comes before .ook in the candidate order.
	assert.Equal(t, base+".cu8", cases[0].InputPath)
}

func TestDiscoverMissingInputStillListed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "oregon", "sample.json"), `{"model":"X"}`)

	cases, _, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Empty(t, cases[0].InputPath)
}

func TestDiscoverIgnoreMarkerSkipsCase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "oregon", "sample.json"), `{"model":"X"}`)
	writeFile(t, filepath.Join(dir, "oregon", "sample.cu8"), "iq")
	writeFile(t, filepath.Join(dir, "oregon", "ignore"), "")

	cases, total, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	assert.Empty(t, cases)
	// Ignored references still count toward the suite size in the report.
	assert.Equal(t, 1, total)
}

func TestDiscoverTotalCountsAllReferences(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "oregon", "sample.json"), `{"model":"X"}`)
	writeFile(t, filepath.Join(dir, "oregon", "sample.cu8"), "iq")
	writeFile(t, filepath.Join(dir, "acurite", "sample.json"), `{"model":"Y"}`)
	writeFile(t, filepath.Join(dir, "acurite", "sample.cu8"), "iq")
	writeFile(t, filepath.Join(dir, "acurite", "ignore"), "")

	cases, total, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, 2, total)
}

func TestDiscoverIgnoreMarkerDoesNotHideMissingInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "oregon", "sample.json"), `{"model":"X"}`)
	writeFile(t, filepath.Join(dir, "oregon", "ignore"), "")

	// Input resolution runs before the ignore check, as in the reference
	// harness: a missing sample is surfaced even for ignored cases.
	cases, _, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Empty(t, cases[0].InputPath)
}

func TestDiscoverProtocolMarkerLiteralToken(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "oregon", "sample.json"), `{"model":"X"}`)
	writeFile(t, filepath.Join(dir, "oregon", "sample.cu8"), "iq")
	writeFile(t, filepath.Join(dir, "oregon", "protocol"), "12\n")

	cases, _, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "12", cases[0].Override)
	assert.Empty(t, cases[0].ConfigFile)
}

func TestDiscoverProtocolMarkerConfigTakesPriority(t *testing.T) {
	dir := t.TempDir()
	confDir := t.TempDir()
	writeFile(t, filepath.Join(confDir, "special.conf"), "decoder settings")
	writeFile(t, filepath.Join(dir, "oregon", "sample.json"), `{"model":"X"}`)
	writeFile(t, filepath.Join(dir, "oregon", "sample.cu8"), "iq")
	writeFile(t, filepath.Join(dir, "oregon", "protocol"), "special.conf\n")

	cases, _, err := newTestScanner(t, dir, confDir).Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Empty(t, cases[0].Override)
	assert.Equal(t, filepath.Join(confDir, "special.conf"), cases[0].ConfigFile)
}

func TestDiscoverTopLevelReferenceIsUnknownGroup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sample.json"), `{"model":"X"}`)
	writeFile(t, filepath.Join(dir, "sample.cu8"), "iq")

	cases, _, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "unknown", cases[0].Protocol)
}

func TestDiscoverStableSortedOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeFile(t, filepath.Join(dir, name, "sample.json"), `{"model":"X"}`)
		writeFile(t, filepath.Join(dir, name, "sample.cu8"), "iq")
	}

	cases, _, err := newTestScanner(t, dir, "").Discover()
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, "alpha", cases[0].Protocol)
	assert.Equal(t, "mid", cases[1].Protocol)
	assert.Equal(t, "zeta", cases[2].Protocol)
}

func TestLoadSuiteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	writeFile(t, path, `
ignore_fields:
  - time
  - mic
timeout: 10s
skip_groups:
  - flaky_group
`)

	cfg, err := LoadSuiteConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "mic"}, cfg.IgnoreFields)
	assert.Equal(t, "10s", cfg.Timeout.String())
	assert.True(t, cfg.Skips("flaky_group"))
	assert.False(t, cfg.Skips("oregon"))
}

func TestSuiteConfigNilSkipsNothing(t *testing.T) {
	var cfg *SuiteConfig
	assert.False(t, cfg.Skips("anything"))
}
