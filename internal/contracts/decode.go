package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode unmarshals a document written by the upstream pipeline. Python's json
// module emits bare NaN / Infinity tokens; they are rewritten to null first.
func Decode(data []byte, v any) error {
	if err := json.Unmarshal(SanitizeJSON(data), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return nil
}

var nonFiniteTokens = [][]byte{
	[]byte("-Infinity"),
	[]byte("Infinity"),
	[]byte("NaN"),
}

// SanitizeJSON replaces NaN, Infinity and -Infinity outside of string literals
// with null. Input without such tokens is returned unchanged.
func SanitizeJSON(data []byte) []byte {
	if !bytes.Contains(data, []byte("NaN")) && !bytes.Contains(data, []byte("Infinity")) {
		return data
	}

	out := make([]byte, 0, len(data))
	inString, escaped := false, false
	for i := 0; i < len(data); {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			i++
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			i++
			continue
		}

		matched := false
		for _, tok := range nonFiniteTokens {
			if bytes.HasPrefix(data[i:], tok) {
				out = append(out, "null"...)
				i += len(tok)
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, c)
			i++
		}
	}
	return out
}

// DecodeRanking decodes a ranking_YYYYMMDD.json document. The date falls back
// to the file's date key when the document omits it.
func DecodeRanking(data []byte, date string) (*RankingSnapshot, error) {
	var snap RankingSnapshot
	if err := Decode(data, &snap); err != nil {
		return nil, fmt.Errorf("ranking %s: %w", date, err)
	}
	if snap.Date == "" {
		snap.Date = date
	}
	return &snap, nil
}

// DecodeWebCache decodes a web_data_YYYYMMDD.json document
func DecodeWebCache(data []byte, date string) (*WebCache, error) {
	var cache WebCache
	if err := Decode(data, &cache); err != nil {
		return nil, fmt.Errorf("web cache %s: %w", date, err)
	}
	if cache.Date == "" {
		cache.Date = date
	}
	return &cache, nil
}
