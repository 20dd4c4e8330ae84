// Package validation binds request payloads and validates them.
//
// Rules are declared with go-playground/validator struct tags. Failures are
// returned as a 400 errs.HTTPError carrying one FieldError per field, named
// after the field's JSON key.
package validation
