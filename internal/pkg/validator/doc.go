// Package validator provides a small validation abstraction for use case
// input structs.
//
// Business code depends on the Validator interface so validation can be
// shared and tested consistently. The concrete implementation uses
// go-playground/validator v10 with English messages.
package validator
