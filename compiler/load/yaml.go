package load

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML (or JSON) definition document. Mapping order
// is kept, so column arguments are rendered in the order they were written.
func ParseYAML(data []byte, source string) ([]*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	tree, err := fromNode(&doc, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return build(tree, source)
}

// fromNode converts a YAML node into the decoded tree. Mapping values up to
// the model bodies (depth 0 and 1) keep their source line.
func fromNode(n *yaml.Node, depth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0], depth)
	case yaml.AliasNode:
		return fromNode(n.Alias, depth)
	case yaml.MappingNode:
		obj := make(object, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				return nil, fmt.Errorf("line %d: merge keys are not supported", k.Line)
			}
			value, err := fromNode(v, depth+1)
			if err != nil {
				return nil, err
			}
			if depth == 0 {
				value = positioned{value: value, line: k.Line}
			}
			obj = append(obj, member{key: k.Value, value: value})
		}
		if depth == 0 {
			return positioned{value: obj, line: n.Line}, nil
		}
		return obj, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := fromNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.ScalarNode:
		return scalar(n)
	default:
		return nil, fmt.Errorf("line %d: unexpected node kind %d", n.Line, n.Kind)
	}
}

// scalar keeps numbers in their written form and resolves booleans and nulls.
func scalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		if _, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			return n.Value, nil
		}
		// Forms such as 0x1F or 0o17 are re-rendered in decimal.
		var i int64
		if err := n.Decode(&i); err != nil {
			var u uint64
			if err := n.Decode(&u); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return u, nil
		}
		return i, nil
	case "!!float":
		if _, err := strconv.ParseFloat(n.Value, 64); err == nil && !strings.ContainsAny(n.Value, "iInN") {
			return n.Value, nil
		}
		// .inf, .nan and the like are rendered through Literal.
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return f, nil
	default:
		return n.Value, nil
	}
}
