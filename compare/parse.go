package compare

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hydrasdr/compat433/types"
)

// ParseReference parses a newline-delimited JSON reference file into a
// record sequence. Blank lines are skipped; any unparsable line fails the
// whole file, since a corrupt reference invalidates the case.
func ParseReference(data []byte) ([]types.Record, error) {
	var seq []types.Record
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec types.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		seq = append(seq, rec)
	}
	return seq, nil
}

// ParseOutput parses decoder stdout leniently: blank and malformed lines are
// dropped without error. Decoders interleave diagnostics with JSON on some
// failure paths, and a garbled line should not escalate a scoring run.
func ParseOutput(data []byte) []types.Record {
	var seq []types.Record
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec types.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		seq = append(seq, rec)
	}
	return seq
}
