// Package sanitizer normalizes form input before validation.
//
// Every function is idempotent and never fails: input that cannot be
// normalized comes back empty so the validator reports it.
package sanitizer
