// Package clock provides a tiny time abstraction.
//
// OTP generation is a pure function of the current Unix time, so the use
// case layer depends on Clocker rather than calling time.Now directly. Tests
// swap in a Fixed clock to get deterministic codes.
package clock
