package mockserver

import (
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrLoadExpectations wraps failures reading an expectation document.
var ErrLoadExpectations = errors.New("failed to load expectations")

// LoadExpectations reads a YAML or JSON stream of one or more documents, each
// holding either a single expectation or a list of them, using MockServer's
// field names. Expectations are returned in document order.
func LoadExpectations(r io.Reader) ([]Expectation, error) {
	var out []Expectation
	dec := yaml.NewDecoder(r)
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, errors.Join(ErrLoadExpectations, err)
		}
		if doc == nil {
			continue
		}

		exps, err := decodeDocument(doc)
		if err != nil {
			return nil, errors.Join(ErrLoadExpectations, err)
		}
		out = append(out, exps...)
	}
}

// decodeDocument round-trips doc through JSON so json tags and
// json.RawMessage bodies apply.
func decodeDocument(doc any) ([]Expectation, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	if _, ok := doc.([]any); ok {
		var list []Expectation
		if err := json.Unmarshal(b, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var one Expectation
	if err := json.Unmarshal(b, &one); err != nil {
		return nil, err
	}
	return []Expectation{one}, nil
}
