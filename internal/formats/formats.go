// Package formats checks string syntax (email, url, uuid) with
// go-playground/validator tags.
package formats

import (
	"errors"
	"sync"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrUnknownFormat is returned by Lookup for names outside the table.
var ErrUnknownFormat = errors.New("formats: unknown format")

// tags maps a format name to the validator tag that checks it.
var tags = map[string]string{
	"email": "email",
	"url":   "url",
	"uuid":  "uuid",
}

var (
	validate     *gvalidator.Validate
	validateOnce sync.Once
)

func instance() *gvalidator.Validate {
	validateOnce.Do(func() {
		validate = gvalidator.New()
	})
	return validate
}

// Lookup reports whether name is a supported format.
func Lookup(name string) error {
	if _, ok := tags[name]; !ok {
		return ErrUnknownFormat
	}
	return nil
}

// Valid reports whether s is syntactically valid for the named format.
// Unknown formats are never valid.
func Valid(name, s string) bool {
	tag, ok := tags[name]
	if !ok {
		return false
	}
	return instance().Var(s, tag) == nil
}
