package submission

import "strings"

// Field names one of the four recognized form attributes. The string value is
// also the JSON key and the HTML input name.
type Field string

const (
	FieldClientName           Field = "clientName"
	FieldSubaccountToken      Field = "subaccountToken"
	FieldSubaccountLocationID Field = "subaccountLocationId"
	FieldSubaccountCalendarID Field = "subaccountCalendarId"
)

var fieldOrder = []Field{
	FieldClientName,
	FieldSubaccountToken,
	FieldSubaccountLocationID,
	FieldSubaccountCalendarID,
}

// Fields returns the recognized fields in render order.
func Fields() []Field {
	return append([]Field(nil), fieldOrder...)
}

// FieldNames returns the recognized field keys in render order.
func FieldNames() []string {
	names := make([]string, 0, len(fieldOrder))
	for _, field := range fieldOrder {
		names = append(names, string(field))
	}
	return names
}

// ParseField resolves a raw input name to a recognized Field.
func ParseField(name string) (Field, bool) {
	candidate := Field(strings.TrimSpace(name))
	for _, field := range fieldOrder {
		if field == candidate {
			return field, true
		}
	}
	return "", false
}

// FormData is the payload collected by the intake form. Every attribute is a
// plain string so the zero value is a valid, empty form.
type FormData struct {
	ClientName           string `json:"clientName"`
	SubaccountToken      string `json:"subaccountToken"`
	SubaccountLocationID string `json:"subaccountLocationId"`
	SubaccountCalendarID string `json:"subaccountCalendarId"`
}

// Get returns the value held for field. Unknown fields read as empty.
func (f FormData) Get(field Field) string {
	switch field {
	case FieldClientName:
		return f.ClientName
	case FieldSubaccountToken:
		return f.SubaccountToken
	case FieldSubaccountLocationID:
		return f.SubaccountLocationID
	case FieldSubaccountCalendarID:
		return f.SubaccountCalendarID
	default:
		return ""
	}
}

// With returns a copy of f with exactly one attribute replaced.
func (f FormData) With(field Field, value string) (FormData, error) {
	switch field {
	case FieldClientName:
		f.ClientName = value
	case FieldSubaccountToken:
		f.SubaccountToken = value
	case FieldSubaccountLocationID:
		f.SubaccountLocationID = value
	case FieldSubaccountCalendarID:
		f.SubaccountCalendarID = value
	default:
		return f, unknownField(string(field))
	}
	return f, nil
}

// Missing lists the fields still holding an empty string, in render order.
func (f FormData) Missing() []Field {
	var out []Field
	for _, field := range fieldOrder {
		if f.Get(field) == "" {
			out = append(out, field)
		}
	}
	return out
}

// Complete reports whether every field holds a non-empty string.
func (f FormData) Complete() bool {
	return len(f.Missing()) == 0
}

// Values returns the form as a name/value map keyed by the JSON keys.
func (f FormData) Values() map[string]string {
	out := make(map[string]string, len(fieldOrder))
	for _, field := range fieldOrder {
		out[string(field)] = f.Get(field)
	}
	return out
}

// Redacted returns a copy safe to log or expose: the subaccount token is
// masked while its presence stays visible.
func (f FormData) Redacted() FormData {
	if f.SubaccountToken != "" {
		f.SubaccountToken = redactedToken
	}
	return f
}

const redactedToken = "[redacted]"
