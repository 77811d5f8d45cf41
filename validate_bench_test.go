package fieldcheck_test

import (
	"testing"

	"github.com/reoring/fieldcheck"
	"github.com/reoring/fieldcheck/auth"
	"github.com/reoring/fieldcheck/source"
)

// ---- Helpers ----

func signupBody() map[string]any {
	return map[string]any{
		"name":     "  Alice Example ",
		"email":    "Alice@Example.com",
		"password": "correct horse battery",
		"role":     "admin",
	}
}

func BenchmarkValidate_SignupOK(b *testing.B) {
	in := signupBody()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if r := fieldcheck.Validate(auth.Signup, in); !r.OK() {
			b.Fatalf("unexpected issues: %v", r.Issues())
		}
	}
}

func BenchmarkValidate_SignupInvalid(b *testing.B) {
	in := map[string]any{"name": "A", "email": "nope", "password": "x", "role": "root"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := fieldcheck.Validate(auth.Signup, in)
		_ = fieldcheck.FormatValidationError(r.Source())
	}
}

func BenchmarkDecodeAndValidate_JSON(b *testing.B) {
	body := []byte(`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)
	b.SetBytes(int64(len(body)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		v, err := source.JSONBytes(body)
		if err != nil {
			b.Fatal(err)
		}
		if r := fieldcheck.Validate(auth.Signup, v); !r.OK() {
			b.Fatalf("unexpected issues: %v", r.Issues())
		}
	}
}
