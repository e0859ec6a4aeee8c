// Package otp computes HMAC-based (RFC 4226) and time-based (RFC 6238)
// one-time passwords from Base32 shared secrets.
//
// The functions here are pure: TOTP takes the current Unix time as an
// argument instead of reading a clock, so identical inputs always produce
// identical codes. Callers that need "now" should obtain it from a
// clock.Clocker and pass it in.
//
// Only HMAC-SHA1 is implemented, which is what the overwhelming majority of
// authenticator apps and otpauth:// URIs use.
package otp
