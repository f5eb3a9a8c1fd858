// Package checkers provides quicktest checkers for JSON tool and CLI output.
package checkers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that decodes the JSON document under test
// (a string or []byte), selects path and compares it with the expected value.
// JSON numbers decode as float64, so compare them against float64 values.
//
//	c.Assert(text, checkers.JSONPathEquals("$.tags[0]"), "#work")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path, argNames: []string{"got", "want"}}
}

// JSONPathLen checks the length of the array selected by path.
func JSONPathLen(path string) qt.Checker {
	return &jsonPathChecker{path: path, argNames: []string{"got", "len"}, length: true}
}

type jsonPathChecker struct {
	path     string
	argNames []string
	length   bool
}

func (c *jsonPathChecker) ArgNames() []string { return c.argNames }

func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return qt.BadCheckf("got must be a string or []byte, not %T", got)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		note("document", string(data))
		return fmt.Errorf("cannot decode JSON: %w", err)
	}
	selected, err := jsonpath.Read(doc, c.path)
	if err != nil {
		note("path", c.path)
		return fmt.Errorf("cannot select path: %w", err)
	}
	note("selected", selected)

	if c.length {
		arr, ok := selected.([]any)
		if !ok {
			return fmt.Errorf("%s is %T, not an array", c.path, selected)
		}
		if len(arr) != args[0] {
			return errors.New("wrong length")
		}
		return nil
	}
	if !reflect.DeepEqual(selected, args[0]) {
		return errors.New("values are not equal")
	}
	return nil
}
