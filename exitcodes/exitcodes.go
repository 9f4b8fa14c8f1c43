// Package exitcodes defines the standard exit codes used by compat433.
package exitcodes

// Exit code constants used by compat433
// These constants define the exit codes that the application uses to
// indicate various states when it exits:
//
// * Success (0): all cases agree with the reference, modulo extras
// * CompatFailure (1): content-confirmed disagreements (mismatch, fail or
//   missing_decode outcomes); no_output and error cases do not trip this
// * RuntimeErr (2): configuration or discovery errors, panics
const (
	Success       = 0
	CompatFailure = 1
	RuntimeErr    = 2
)
