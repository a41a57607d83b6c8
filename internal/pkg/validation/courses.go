package validation

import (
	"encoding/json"
	"strings"
)

// CoursesKind tags how the courses field arrived.
type CoursesKind int

const (
	// CoursesAbsent means the field was not submitted at all.
	CoursesAbsent CoursesKind = iota
	// CoursesScalar is a single bare value such as "MCA".
	CoursesScalar
	// CoursesEncoded is a JSON array rendered as text, e.g. `["MCA","BCA"]`.
	CoursesEncoded
	// CoursesSequence is an already structured list (repeated form values).
	CoursesSequence
)

// CoursesValue is the raw courses field resolved once at the request boundary.
type CoursesValue struct {
	Kind     CoursesKind
	Text     string
	Sequence []string
}

// ScalarCourses wraps a single bare value.
func ScalarCourses(v string) CoursesValue {
	return CoursesValue{Kind: CoursesScalar, Text: v}
}

// EncodedCourses wraps JSON text.
func EncodedCourses(v string) CoursesValue {
	return CoursesValue{Kind: CoursesEncoded, Text: v}
}

// SequenceCourses wraps a structured list.
func SequenceCourses(v []string) CoursesValue {
	return CoursesValue{Kind: CoursesSequence, Sequence: v}
}

// CoursesFromForm classifies the values a multipart form carried for the
// courses key. A single value that looks like a JSON array is treated as
// encoded text; repeated keys form a sequence.
func CoursesFromForm(values []string) CoursesValue {
	switch len(values) {
	case 0:
		return CoursesValue{}
	case 1:
		if strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
			return EncodedCourses(values[0])
		}
		return ScalarCourses(values[0])
	default:
		return SequenceCourses(values)
	}
}

// Present reports whether the field was submitted.
func (c CoursesValue) Present() bool {
	return c.Kind != CoursesAbsent
}

// Normalize returns the courses as an ordered list of trimmed, non-empty
// values. Encoded text that fails to decode is kept as a single element.
// Membership validation then rejects that element with the courses message,
// which is the expected outcome for a malformed encoded payload.
func (c CoursesValue) Normalize() []string {
	switch c.Kind {
	case CoursesScalar:
		return clean([]string{c.Text})
	case CoursesEncoded:
		var list []string
		if err := json.Unmarshal([]byte(c.Text), &list); err == nil {
			return clean(list)
		}
		var single string
		if err := json.Unmarshal([]byte(c.Text), &single); err == nil {
			return clean([]string{single})
		}
		return clean([]string{c.Text})
	case CoursesSequence:
		return clean(c.Sequence)
	}
	return nil
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
