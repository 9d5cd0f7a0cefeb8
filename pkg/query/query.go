// Package query selects features and projects their properties from built
// GeoJSON collections.
package query

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// KeysSelector projects every property key of a feature.
const KeysSelector = "@keys"

// Usage describes the query syntax.
const Usage = `Query syntax: [filter][.selector]

filter selects features by their type property:
  (empty)      every feature
  poi          every point of interest (types starting with "point-")
  ?name        features that have the property, whatever its value
  other        features whose type equals the text, e.g. park, trail,
               trailSystem, trailSegment, parkBorder, point-parking

selector chooses what is printed for each selected feature:
  (empty)      the feature id
  @keys        every property key, one per line
  other        the value of that property; omit the namespace prefix

Each output line is prefixed by the file name and a colon.

Examples:
  .            list every feature id
  .color       list every color
  poi.type     list POI types
  park.name    list park names
  ?url.@keys   property keys of features that carry a url`

// Query is a parsed filter and selector pair.
type Query struct {
	namespace string
	filter    string
	selector  string
}

// Parse reads a query of at most two dot-separated parts. Empty parts
// mean "everything" for the filter and "the id" for the selector.
func Parse(text, namespace string) (*Query, error) {
	tokens := strings.Split(strings.TrimSpace(text), ".")
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > 2 {
		return nil, fmt.Errorf("%w: %q has more than two parts", ErrBadQuery, text)
	}

	q := &Query{namespace: namespace}
	if len(tokens) > 0 {
		q.filter = strings.TrimSpace(tokens[0])
	}
	if len(tokens) > 1 {
		q.selector = strings.TrimSpace(tokens[1])
	}
	if q.filter == "?" {
		return nil, fmt.Errorf("%w: %q has no property after ?", ErrBadQuery, text)
	}
	return q, nil
}

func (q *Query) key(short string) string {
	return q.namespace + "-" + short
}

// Match reports whether a feature's properties pass the filter.
func (q *Query) Match(props gjson.Result) bool {
	switch {
	case q.filter == "":
		return true
	case strings.HasPrefix(q.filter, "?"):
		_, ok := lookup(props, q.key(q.filter[1:]))
		return ok
	}
	typ := ""
	if r, ok := lookup(props, q.key("type")); ok {
		typ = r.String()
	}
	if q.filter == "poi" {
		return strings.HasPrefix(typ, "point-")
	}
	return typ == q.filter
}

// Project returns the selector's output rows for one feature.
func (q *Query) Project(props gjson.Result) []string {
	switch q.selector {
	case "":
		return nonBlank(lookupText(props, q.key("id")))
	case KeysSelector:
		var keys []string
		prefix := q.namespace + "-"
		props.ForEach(func(k, _ gjson.Result) bool {
			keys = append(keys, strings.TrimPrefix(k.String(), prefix))
			return true
		})
		return keys
	default:
		return nonBlank(lookupText(props, q.key(q.selector)))
	}
}

// Run evaluates the query over one serialized collection and writes each
// row as "<source>:<value>". It returns the number of rows written.
func (q *Query) Run(source string, data []byte, w io.Writer) (int, error) {
	if !gjson.ValidBytes(data) {
		return 0, fmt.Errorf("%w: %s", ErrNotGeoJSON, source)
	}
	features := gjson.GetBytes(data, "features")
	if !features.IsArray() {
		return 0, fmt.Errorf("%w: %s", ErrNotGeoJSON, source)
	}

	rows := 0
	var werr error
	features.ForEach(func(_, f gjson.Result) bool {
		props := f.Get("properties")
		if !q.Match(props) {
			return true
		}
		for _, v := range q.Project(props) {
			if _, werr = fmt.Fprintf(w, "%s:%s\n", source, v); werr != nil {
				return false
			}
			rows++
		}
		return true
	})
	return rows, werr
}

// RunFile evaluates the query over the collection at path, labelling rows
// with the file's base name.
func (q *Query) RunFile(path string, w io.Writer) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("file does not exist: %w", err)
	}
	return q.Run(filepath.Base(path), data, w)
}

// lookup finds a property by exact key. Keys are matched literally so
// path syntax characters in property names need no escaping.
func lookup(props gjson.Result, key string) (gjson.Result, bool) {
	var found gjson.Result
	ok := false
	props.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

func lookupText(props gjson.Result, key string) string {
	r, ok := lookup(props, key)
	if !ok || r.Type == gjson.Null {
		return ""
	}
	if r.Type == gjson.String {
		return r.Str
	}
	return r.Raw
}

func nonBlank(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return []string{s}
}
