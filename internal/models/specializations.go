package models

import (
	"encoding/json"
	"strings"
)

// Specializations is the normalized set of specialization values held by a
// user or trainer. Storage may carry a single value, a list, or a string that
// serializes a list; ParseSpecializations folds all three into this form.
type Specializations []string

func ParseSpecializations(raw string) Specializations {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Specializations{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return compactSpecializations(list)
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return ParseSpecializations(single)
	}

	return Specializations{raw}
}

func (s Specializations) Contains(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, item := range s {
		if item == value {
			return true
		}
	}
	return false
}

func (s *Specializations) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = compactSpecializations(list)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = ParseSpecializations(single)
	return nil
}

func (s Specializations) String() string {
	encoded, err := json.Marshal([]string(s))
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func compactSpecializations(values []string) Specializations {
	out := make(Specializations, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
