// Package corpus discovers test cases in an rtl_433-style reference tree:
// one NDJSON reference file per case, grouped by protocol directory, with
// optional ignore/protocol marker files and sample inputs alongside.
package corpus

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/hydrasdr/compat433/types"
)

// sampleExtensions are the candidate input formats, tried in this fixed
// order; the first existing file wins.
var sampleExtensions = []string{".cu8", ".ook", ".cs16", ".cf32"}

const (
	ignoreMarker   = "ignore"
	protocolMarker = "protocol"
)

// Config contains scanner configuration.
type Config struct {
	Log       log.Logger
	TestDir   string // root of the reference corpus
	ConfigDir string // directory against which protocol-marker config names resolve
}

// Scanner walks a reference corpus and produces test cases.
type Scanner struct {
	cfg Config
}

// NewScanner creates a corpus scanner.
func NewScanner(cfg Config) (*Scanner, error) {
	if cfg.TestDir == "" {
		return nil, errors.New("test directory is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	return &Scanner{cfg: cfg}, nil
}

// Discover walks the test directory and returns all test cases in stable,
// sorted-by-path order so reruns are reproducible, plus the total number of
// reference files seen. The total counts ignore-marked cases too; it is the
// suite size quoted in the report metadata.
//
// Cases whose reference file has no paired input sample are still returned
// (with an empty InputPath) so the runner can score them missing_input.
// Cases with an ignore marker next to them are dropped entirely, but only
// after input resolution; an ignored case without an input still surfaces
// as missing_input, matching the reference harness.
func (s *Scanner) Discover() ([]types.TestCase, int, error) {
	var cases []types.TestCase
	total := 0

	err := filepath.WalkDir(s.cfg.TestDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walking %s", path)
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		total++

		tc, skip, err := s.buildCase(path)
		if err != nil {
			return err
		}
		if !skip {
			cases = append(cases, tc)
		}
		return nil
	})
	if err != nil {
		return nil, 0, errors.Wrap(err, "corpus discovery failed")
	}

	s.cfg.Log.Info("Corpus discovered", "dir", s.cfg.TestDir, "references", total, "cases", len(cases))
	return cases, total, nil
}

// buildCase derives one test case from a reference file path. The returned
// skip flag is set for ignore-marked cases.
func (s *Scanner) buildCase(refPath string) (types.TestCase, bool, error) {
	tc := types.TestCase{
		RefPath:  refPath,
		Protocol: s.protocolGroup(refPath),
		Name:     strings.TrimSuffix(filepath.Base(refPath), ".json"),
	}

	base := strings.TrimSuffix(refPath, ".json")
	for _, ext := range sampleExtensions {
		candidate := base + ext
		if fileExists(candidate) {
			tc.InputPath = candidate
			break
		}
	}
	if tc.InputPath == "" {
		// Scored missing_input by the runner; the ignore marker is not
		// consulted for these.
		return tc, false, nil
	}

	dir := filepath.Dir(refPath)
	if fileExists(filepath.Join(dir, ignoreMarker)) {
		s.cfg.Log.Debug("Skipping ignored case", "ref", refPath)
		return tc, true, nil
	}

	if err := s.resolveOverride(&tc, dir); err != nil {
		return tc, false, err
	}
	return tc, false, nil
}

// resolveOverride reads the protocol marker, if any. Its first line names
// either a decoder config file (resolved against the config directory,
// taking priority) or a literal protocol-selector token.
func (s *Scanner) resolveOverride(tc *types.TestCase, dir string) error {
	markerPath := filepath.Join(dir, protocolMarker)
	f, err := os.Open(markerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading protocol marker %s", markerPath)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		tc.Override = strings.TrimSpace(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "reading protocol marker %s", markerPath)
	}

	if tc.Override != "" && s.cfg.ConfigDir != "" {
		candidate := filepath.Join(s.cfg.ConfigDir, tc.Override)
		if fileExists(candidate) {
			tc.ConfigFile = candidate
			tc.Override = ""
		}
	}
	return nil
}

// protocolGroup derives the grouping identifier from the first path element
// under the test root. Reference files directly in the root fall back to
// "unknown".
func (s *Scanner) protocolGroup(refPath string) string {
	rel, err := filepath.Rel(s.cfg.TestDir, refPath)
	if err != nil {
		return "unknown"
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) > 1 {
		return parts[0]
	}
	return "unknown"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
