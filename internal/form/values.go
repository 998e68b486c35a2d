// Package form implements the populate-edit-submit cycle shared by the
// record editors: fill flat string fields from a record, let the user
// change them, and turn the result into a request payload.
package form

import (
	"fmt"
	"sort"
	"strings"

	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/model"
)

// Values is the flat key/value view of a form, as the fields hold it.
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, s := range v {
		out[k] = s
	}
	return out
}

// Apply merges key=value overrides. Unknown keys are rejected so a typo
// never silently becomes a new server field.
func (v Values) Apply(overrides []string) error {
	for _, kv := range overrides {
		k, val, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return apperr.Invalid(kv, "expected key=value")
		}
		if _, known := v[k]; !known {
			return apperr.Invalid(k, "unknown field (have "+strings.Join(v.Keys(), ", ")+")")
		}
		v[k] = val
	}
	return nil
}

// Keys returns the field names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Payload converts the values to a request body. Optional fields holding
// the empty string are left out entirely rather than sent empty.
func (v Values) Payload(optional ...string) map[string]any {
	skip := make(map[string]bool, len(optional))
	for _, k := range optional {
		skip[k] = true
	}
	out := make(map[string]any, len(v))
	for k, s := range v {
		if s == "" && skip[k] {
			continue
		}
		out[k] = s
	}
	return out
}

// Required checks that each named field is non-blank.
func (v Values) Required(fields ...string) error {
	for _, f := range fields {
		if strings.TrimSpace(v[f]) == "" {
			return apperr.Invalid(f, "required")
		}
	}
	return nil
}

// ToLocalInput renders a stored timestamp in the editable wall-clock
// layout. The zero time renders as "".
func ToLocalInput(t model.LocalTime) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LocalInputLayout)
}

// LocalInputLayout is the editable date/time layout.
const LocalInputLayout = "2006-01-02T15:04"

// ParseLocalInput reads a wall-clock value back into the stored form.
// The empty string yields the zero time.
func ParseLocalInput(field, s string) (model.LocalTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.LocalTime{}, nil
	}
	t, err := model.ParseLocalTime(s)
	if err != nil {
		return model.LocalTime{}, apperr.Invalid(field, fmt.Sprintf("%q is not a date/time (want YYYY-MM-DDTHH:MM)", s))
	}
	return t, nil
}

func intString(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}
