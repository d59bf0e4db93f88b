package recordstore

import (
	"errors"
	"fmt"
)

var (
	errRecordNotFound = errors.New("record not found")
	errFieldShape     = errors.New("unrecognized field shape")
	errFieldMissing   = errors.New("field missing")
)

// FieldKind tags the decoded shape of one record field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindLinks
)

// FieldValue is the strict decoding of one record field. The store returns
// loosely typed JSON — plain strings, numbers, or arrays of linked record
// ids depending on how a column is configured — and this union pins each
// value to exactly one of those shapes at the adapter boundary. Anything
// else is rejected rather than guessed at.
type FieldValue struct {
	Kind  FieldKind
	Str   string
	Num   float64
	Links []string
}

func decodeField(raw any) (FieldValue, error) {
	switch v := raw.(type) {
	case string:
		return FieldValue{Kind: KindString, Str: v}, nil
	case float64:
		return FieldValue{Kind: KindNumber, Num: v}, nil
	case []any:
		links := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return FieldValue{}, fmt.Errorf("%w: array element %T", errFieldShape, item)
			}
			links[i] = s
		}
		return FieldValue{Kind: KindLinks, Links: links}, nil
	default:
		return FieldValue{}, fmt.Errorf("%w: %T", errFieldShape, raw)
	}
}

// AsID returns the value as a single record id: a plain string, or a link
// array of exactly one element.
func (f FieldValue) AsID() (string, error) {
	switch f.Kind {
	case KindString:
		return f.Str, nil
	case KindLinks:
		if len(f.Links) != 1 {
			return "", fmt.Errorf("%w: %d links where one id expected", errFieldShape, len(f.Links))
		}
		return f.Links[0], nil
	}
	return "", fmt.Errorf("%w: number where id expected", errFieldShape)
}

// AsString requires a plain string value.
func (f FieldValue) AsString() (string, error) {
	if f.Kind != KindString {
		return "", fmt.Errorf("%w: non-string where string expected", errFieldShape)
	}
	return f.Str, nil
}

// AsNumber requires a numeric value.
func (f FieldValue) AsNumber() (float64, error) {
	if f.Kind != KindNumber {
		return 0, fmt.Errorf("%w: non-number where number expected", errFieldShape)
	}
	return f.Num, nil
}

// field decodes one named field of a record, distinguishing a missing field
// from a malformed one.
func field(rec record, name string) (FieldValue, error) {
	raw, ok := rec.Fields[name]
	if !ok {
		return FieldValue{}, fmt.Errorf("%w: %q", errFieldMissing, name)
	}
	fv, err := decodeField(raw)
	if err != nil {
		return FieldValue{}, fmt.Errorf("field %q: %w", name, err)
	}
	return fv, nil
}
