// Package jsonschema holds the JSON Schema representation that object
// schemas are exported to.
package jsonschema

// Draft is the $schema URI stamped on exported root documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	SchemaURI string `json:"$schema,omitempty"`
	Title     string `json:"title,omitempty"`

	// Core
	Type    string `json:"type,omitempty"`
	Format  string `json:"format,omitempty"`
	Default any    `json:"default,omitempty"`
	Enum    []any  `json:"enum,omitempty"`

	// String
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
}

// Int returns a pointer to n for the optional numeric keywords.
func Int(n int) *int { return &n }
