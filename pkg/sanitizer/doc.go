// Package sanitizer normalizes caller-supplied text before validation
// and persistence.
package sanitizer
