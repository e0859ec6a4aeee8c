// Package otpauth reads and writes otpauth:// provisioning URIs, the de facto
// interchange format authenticator apps use to share TOTP credentials:
//
//	otpauth://totp/<label>?secret=<base32>&digits=6&period=30
//
// The label is taken verbatim as the credential name, so an
// "Issuer:account" label is not split. Only the totp type is accepted and
// only HMAC-SHA1 is honored; a different algorithm parameter is reported
// back through Key.IgnoredAlgorithm rather than silently dropped.
package otpauth
