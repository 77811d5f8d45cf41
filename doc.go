// Package fieldcheck validates request bodies against declarative object
// schemas and renders the failures as a single message.
//
//   - Schemas are plain immutable values built with Field and Object
//   - Validate evaluates every field independently and reports one Issue per failing field
//   - FormatValidationError turns a failure (or any error-like value) into display text
//
// Layout:
//   - auth/ holds the signup and sign-in schemas
//   - source/ decodes JSON and YAML bodies into validator input
//   - middleware/ binds schemas to net/http handlers
//   - cmd/fieldcheck is the CLI
//
// Typical usage:
//
//	r := fieldcheck.Validate(auth.Signup, body)
//	if !r.OK() {
//		http.Error(w, fieldcheck.FormatValidationError(r.Source()), http.StatusBadRequest)
//		return
//	}
//	user := r.Value()
package fieldcheck
