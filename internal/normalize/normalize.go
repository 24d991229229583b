// Package normalize extracts structured JSON documents from raw generative
// model output. Model responses arrive as free text: sometimes bare JSON,
// sometimes wrapped in a fenced code block (with or without a language tag),
// sometimes with explanatory prose around the block. Extract strips at most
// one layer of wrapping and validates the result; it never attempts semantic
// repair of malformed content.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/vibeworks/forge/internal/errors"
)

const fence = "```"

// Extract returns the JSON document embedded in raw, or a
// MalformedResponseError if none can be found.
func Extract(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.NewMalformedResponse("empty response", "")
	}

	// A bare document wins outright. Checking before fence stripping keeps
	// fences inside string values (markdown content, shell snippets) from
	// being mistaken for a wrapper.
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	if body, ok := unfence(trimmed); ok {
		body = strings.TrimSpace(body)
		if json.Valid([]byte(body)) {
			return json.RawMessage(body), nil
		}
		// The fence pair was not a wrapper (stray fences in prose or inside
		// the document); fall through to the balanced scan.
	}

	// Scan for the first balanced object or array. This covers bare JSON
	// with prose before or after it.
	doc, ok := balancedDocument(trimmed)
	if !ok {
		return nil, errors.NewMalformedResponse("no JSON document found", trimmed)
	}
	if !json.Valid([]byte(doc)) {
		return nil, errors.NewMalformedResponse("candidate document is not valid JSON", doc)
	}
	return json.RawMessage(doc), nil
}

// Into extracts the JSON document from raw and unmarshals it into v.
func Into(raw string, v interface{}) error {
	doc, err := Extract(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return errors.NewMalformedResponse("document does not match expected shape: "+err.Error(), string(doc))
	}
	return nil
}

// StripFences removes a single fenced-code-block wrapper from raw text
// without requiring the content to be JSON. Used for file-content responses
// where the model wraps generated source in a code block.
func StripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if body, ok := unfence(trimmed); ok {
		return strings.TrimSpace(body)
	}
	return trimmed
}

// unfence locates the first opening fence and the last closing fence and
// returns the content between them. An optional language tag after the
// opening fence (```json, ```jsx, ...) is discarded. Returns false when the
// text contains no fence pair.
func unfence(s string) (string, bool) {
	open := strings.Index(s, fence)
	if open == -1 {
		return "", false
	}
	rest := s[open+len(fence):]

	// Drop the language annotation: everything up to the first newline,
	// provided it looks like a tag rather than content.
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		tag := strings.TrimSpace(rest[:nl])
		if tag != "" && !strings.ContainsAny(tag, "{}[]\" ") {
			rest = rest[nl+1:]
		} else if tag == "" {
			rest = rest[nl+1:]
		}
	}

	close := strings.LastIndex(rest, fence)
	if close == -1 {
		return "", false
	}
	return rest[:close], true
}

// balancedDocument finds the first '{' or '[' and scans for its matching
// closer, tracking string literals and escapes so braces inside strings do
// not confuse the depth count.
func balancedDocument(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return "", false
	}

	opener := s[start]
	closer := byte('}')
	if opener == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		c := s[i]
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if c == opener {
			depth++
		} else if c == closer {
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
