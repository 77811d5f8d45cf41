package fieldcheck

import (
	js "github.com/reoring/fieldcheck/jsonschema"
)

// JSONSchema projects the object schema into a JSON Schema document.
// Trim steps and transforms have no JSON Schema equivalent and are left out.
func (o ObjectSchema) JSONSchema() *js.Schema {
	root := &js.Schema{
		SchemaURI:  js.Draft,
		Type:       "object",
		Properties: make(map[string]*js.Schema, len(o.props)),
		// unknown keys are stripped, never passed through
		AdditionalProperties: false,
	}
	for _, p := range o.props {
		root.Properties[p.Name] = p.Field.JSONSchema()
		if p.Field.IsRequired() && !p.Field.hasDefault {
			root.Required = append(root.Required, p.Name)
		}
	}
	return root
}

// JSONSchema projects a single field.
func (f FieldSchema) JSONSchema() *js.Schema {
	s := &js.Schema{Type: jsonType(f.base)}
	for _, c := range f.constraints {
		switch c.Kind {
		case KindMinLength:
			if s.MinLength == nil || *s.MinLength < c.Limit {
				s.MinLength = js.Int(c.Limit)
			}
		case KindMaxLength:
			if s.MaxLength == nil || *s.MaxLength > c.Limit {
				s.MaxLength = js.Int(c.Limit)
			}
		case KindFormat:
			s.Format = jsonFormat(c.Format)
		case KindEnum:
			s.Enum = make([]any, len(c.Values))
			for i, v := range c.Values {
				s.Enum[i] = v
			}
		}
	}
	if f.hasDefault {
		s.Default = f.def
	}
	return s
}

func jsonType(p Primitive) string {
	switch p {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	}
	return ""
}

func jsonFormat(name string) string {
	if name == FormatURL {
		return "uri"
	}
	return name
}
