// Package art normalizes the heterogeneous album-art responses returned by
// playback daemons into raw image bytes.
package art

// aliasKeys are container keys known to carry image data, checked in order.
var aliasKeys = [...]string{"data", "binary", "image", "image_data", "file"}

type kind uint8

const (
	kindNone kind = iota
	kindBytes
	kindSequence
	kindContainer
	kindRecord
)

// Entry is one key/value pair of a container payload. Order is preserved.
type Entry struct {
	Key   string
	Value Payload
}

// Payload is one album-art response reduced to a closed set of shapes:
// raw bytes, an ordered sequence of parts, a keyed container, or a
// structured record exposing a data field. Adapters over a concrete daemon
// client construct payloads; Normalize folds them back to bytes.
type Payload struct {
	kind    kind
	data    []byte
	parts   []Payload
	entries []Entry
	record  *Payload
}

// None is the empty payload.
func None() Payload {
	return Payload{}
}

// Bytes wraps a raw byte response.
func Bytes(b []byte) Payload {
	return Payload{kind: kindBytes, data: b}
}

// Sequence wraps an ordered list of sub-responses.
func Sequence(parts ...Payload) Payload {
	return Payload{kind: kindSequence, parts: parts}
}

// Container wraps a keyed response. Entry order matters for the fallback
// scan when no alias key is present.
func Container(entries ...Entry) Payload {
	return Payload{kind: kindContainer, entries: entries}
}

// Record wraps a structured response exposing a single data field.
func Record(data Payload) Payload {
	return Payload{kind: kindRecord, record: &data}
}

// Normalize reduces a payload to raw image bytes. ok is false when the
// payload holds no usable data.
//
// Sequences concatenate every non-empty part in order. Containers resolve
// the first known alias key if present; otherwise the first entry that
// normalizes to non-empty bytes wins. Records recurse into their data field.
func Normalize(p Payload) (data []byte, ok bool) {
	switch p.kind {
	case kindBytes:
		if len(p.data) == 0 {
			return nil, false
		}
		return p.data, true

	case kindSequence:
		var buf []byte
		for _, part := range p.parts {
			if b, ok := Normalize(part); ok {
				buf = append(buf, b...)
			}
		}
		if len(buf) == 0 {
			return nil, false
		}
		return buf, true

	case kindContainer:
		for _, alias := range aliasKeys {
			for _, e := range p.entries {
				if e.Key == alias {
					return Normalize(e.Value)
				}
			}
		}
		for _, e := range p.entries {
			if b, ok := Normalize(e.Value); ok {
				return b, true
			}
		}
		return nil, false

	case kindRecord:
		if p.record == nil {
			return nil, false
		}
		return Normalize(*p.record)

	default:
		return nil, false
	}
}
