// Package goerror defines the structured error returned by the use case
// layer. Every error carries a Type and a Code; the command line boundary
// turns the Code into a process exit status with ExitCode.
package goerror
