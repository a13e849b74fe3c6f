// util/json.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UnmarshalJSONBytes unmarshals b into out, translating decoder offsets
// into line and character positions so that hand-edited envelope tables
// get useful error messages.
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := JSONOffsetPosition(b, jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %v", line, char, jerr)

	case *json.UnmarshalTypeError:
		line, char := JSONOffsetPosition(b, jerr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %s value for %s.%s invalid for type %s",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String())

	default:
		return err
	}
}

// JSONOffsetPosition returns the 1-based line and character of the byte
// offset in b.
func JSONOffsetPosition(b []byte, offset int64) (line, char int) {
	line, char = 1, 1
	for i := 0; i < int(offset) && i < len(b); i++ {
		if b[i] == '\n' {
			line++
			char = 1
		} else {
			char++
		}
	}
	return
}

// DuplicateJSONKey represents a key that appears more than once in the
// same JSON object. Path is the dot-separated list of enclosing keys.
type DuplicateJSONKey struct {
	Path string
	Key  string
}

// FindDuplicateJSONKeys walks the token stream of data and reports every
// repeated key. encoding/json (and the ordered map used for envelope
// tables) silently keeps the last value, so duplicated mode names would
// otherwise go unnoticed. Malformed JSON ends the walk early; the caller
// reports syntax errors separately.
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	dec := json.NewDecoder(bytes.NewReader(data))

	// One frame per open object or array. key is the key whose value is
	// the container, if any, and is used to build paths.
	type frame struct {
		object bool
		seen   map[string]bool
		key    string
		// For objects: true when the next string token is a key.
		wantKey bool
	}
	var stack []*frame
	var dups []DuplicateJSONKey

	path := func() string {
		var p []string
		for _, f := range stack {
			if f.key != "" {
				p = append(p, f.key)
			}
		}
		return strings.Join(p, ".")
	}

	// pending is the key that names the next value in the enclosing object.
	var pending string
	valueDone := func() {
		pending = ""
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].wantKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				stack = append(stack, &frame{
					object:  d == '{',
					seen:    make(map[string]bool),
					key:     pending,
					wantKey: d == '{',
				})
				pending = ""
			case '}', ']':
				stack = stack[:len(stack)-1]
				valueDone()
			}
			continue
		}

		if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].wantKey {
			k := tok.(string)
			top := stack[n-1]
			if top.seen[k] {
				dups = append(dups, DuplicateJSONKey{Path: path(), Key: k})
			}
			top.seen[k] = true
			top.wantKey = false
			pending = k
			continue
		}

		valueDone()
	}

	return dups
}
