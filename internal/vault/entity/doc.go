// Package entity holds the vault domain model: the Credential profile and
// the Registry of uniquely named credentials together with the rules that
// keep it consistent.
package entity
