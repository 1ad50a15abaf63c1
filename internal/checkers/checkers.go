// Package checkers provides quicktest checkers for JSON command and tool output.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker asserting that the JSON document got
// (a string or []byte) holds want at path. Values are compared after JSON
// decoding, so numbers must be given as float64.
//
//	c.Assert(out, checkers.JSONPathEquals("$.book.id"), float64(1))
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path}
}

type jsonPathChecker struct {
	path string
}

// ArgNames implements qt.Checker.
func (*jsonPathChecker) ArgNames() []string { return []string{"got", "want"} }

// Check implements qt.Checker.
func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("got must be string or []byte, not %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		note("error", err)
		return fmt.Errorf("got is not valid JSON")
	}
	value, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("path", c.path)
		return fmt.Errorf("cannot read JSON path: %w", err)
	}
	note("path", c.path)
	note("value", value)
	return qt.DeepEquals.Check(value, args, note)
}
