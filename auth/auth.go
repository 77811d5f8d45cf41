// Package auth declares the request schemas of the signup and sign-in endpoints.
package auth

import (
	"sort"

	"github.com/reoring/fieldcheck"
)

// Roles accepted on signup.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	name = fieldcheck.Field(fieldcheck.String, []fieldcheck.Constraint{
		fieldcheck.Required(),
		fieldcheck.Trim(),
		fieldcheck.MinLength(2),
		fieldcheck.MaxLength(255),
	})

	// signinEmail is validated on the raw string; case folding happens after.
	signinEmail = fieldcheck.Field(fieldcheck.String, []fieldcheck.Constraint{
		fieldcheck.Required(),
		fieldcheck.Email(),
	}, fieldcheck.WithTransform(fieldcheck.LowerTrim))

	signupEmail = signinEmail.With(fieldcheck.MaxLength(255))

	signupPassword = fieldcheck.Field(fieldcheck.String, []fieldcheck.Constraint{
		fieldcheck.Required(),
		fieldcheck.MinLength(6),
		fieldcheck.MaxLength(128),
	})

	signinPassword = fieldcheck.Field(fieldcheck.String, []fieldcheck.Constraint{
		fieldcheck.Required(),
		fieldcheck.MinLength(1),
	})

	role = fieldcheck.Field(fieldcheck.String, []fieldcheck.Constraint{
		fieldcheck.OneOf(RoleUser, RoleAdmin),
	}, fieldcheck.WithDefault(RoleUser))
)

// Signup validates registration bodies.
var Signup = fieldcheck.MustObject(
	fieldcheck.Prop("name", name),
	fieldcheck.Prop("email", signupEmail),
	fieldcheck.Prop("password", signupPassword),
	fieldcheck.Prop("role", role),
)

// Signin validates login bodies.
var Signin = fieldcheck.MustObject(
	fieldcheck.Prop("email", signinEmail),
	fieldcheck.Prop("password", signinPassword),
)

// SignupRequest is the typed form of a validated signup body.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SigninRequest is the typed form of a validated sign-in body.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var schemas = map[string]fieldcheck.ObjectSchema{
	"signup": Signup,
	"signin": Signin,
}

// Lookup returns the schema registered under schemaName.
func Lookup(schemaName string) (fieldcheck.ObjectSchema, bool) {
	s, ok := schemas[schemaName]
	return s, ok
}

// Names lists the registered schema names in sorted order.
func Names() []string {
	out := make([]string, 0, len(schemas))
	for n := range schemas {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
