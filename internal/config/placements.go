package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"lti-provider/internal/lti"
)

// Placement is one configured placement with its properties in document order.
type Placement struct {
	Option     string
	Properties lti.Properties
}

// Placements decodes a mapping of placement code to property mapping while
// keeping the document order of both levels. Go maps would lose it.
//
//	placements:
//	  course_navigation:
//	    text: Open grader
//	    visibility: admins
//	  editor: {}
type Placements []Placement

// UnmarshalJSON reads an ordered JSON object.
func (p *Placements) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out Placements
	err := readObject(dec, func(option string) error {
		var props lti.Properties
		err := readObject(dec, func(name string) error {
			var v any
			if err := dec.Decode(&v); err != nil {
				return fmt.Errorf("placement %s: property %s: %w", option, name, err)
			}
			value, err := scalarString(v)
			if err != nil {
				return fmt.Errorf("placement %s: property %s: %w", option, name, err)
			}
			props = props.Set(name, value)
			return nil
		})
		if err != nil {
			return err
		}
		out = append(out, Placement{Option: option, Properties: props})
		return nil
	})
	if err != nil {
		return err
	}

	*p = out
	return nil
}

// UnmarshalYAML reads an ordered YAML mapping.
func (p *Placements) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*p = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: placements must be a mapping", node.Line)
	}

	out := make(Placements, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		option, value := node.Content[i].Value, node.Content[i+1]

		var props lti.Properties
		switch {
		case value.Kind == yaml.ScalarNode && value.Tag == "!!null":
		case value.Kind == yaml.MappingNode:
			for j := 0; j+1 < len(value.Content); j += 2 {
				key, v := value.Content[j], value.Content[j+1]
				if v.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: placement %s: property %s must be a scalar", v.Line, option, key.Value)
				}
				val := v.Value
				if v.Tag == "!!null" {
					val = ""
				}
				props = props.Set(key.Value, val)
			}
		default:
			return fmt.Errorf("line %d: placement %s must be a mapping", value.Line, option)
		}

		out = append(out, Placement{Option: option, Properties: props})
	}

	*p = out
	return nil
}

// readObject walks a JSON object, calling fn with the decoder positioned at each value.
// A null object is treated as empty.
func readObject(dec *json.Decoder, fn func(key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		if err := fn(key); err != nil {
			return err
		}
	}

	// Closing brace
	_, err = dec.Token()
	return err
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("must be a string, number or boolean")
	}
}
