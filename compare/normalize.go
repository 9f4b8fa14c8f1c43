package compare

import (
	"github.com/hydrasdr/compat433/types"
)

// RemoveFields strips the named fields from every record in the sequence.
// Fields that are absent are simply skipped. The sequence is modified in
// place and returned for convenience; records are transient working copies
// so mutation is fine here. Normalization is idempotent.
func RemoveFields(seq []types.Record, fields []string) []types.Record {
	for _, rec := range seq {
		for _, field := range fields {
			delete(rec, field)
		}
	}
	return seq
}
