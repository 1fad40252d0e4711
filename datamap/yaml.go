package datamap

import (
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	_ yaml.Marshaler   = (*Entry)(nil)
	_ yaml.Unmarshaler = (*Entry)(nil)
	_ yaml.Marshaler   = (*DataMap)(nil)
	_ yaml.Unmarshaler = (*DataMap)(nil)
)

// The yaml codec is what carries ordering across process boundaries:
// mapping nodes are built by hand so fields serialize in entry order
// and decode back in document order.

func (e *Entry) yamlNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i := range e.fields {
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(e.fields[i].Value); err != nil {
			return nil, errors.Wrapf(err, "Failed to encode field %q", e.fields[i].Name)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.fields[i].Name},
			valueNode)
	}
	return node, nil
}

func (e *Entry) MarshalYAML() (interface{}, error) {
	return e.yamlNode()
}

func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("Expected mapping node for entry, got kind %d", node.Kind)
	}
	e.fields = e.fields[:0]
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v interface{}
		if err := node.Content[i+1].Decode(&v); err != nil {
			return errors.Wrapf(err, "Failed to decode field %q", node.Content[i].Value)
		}
		e.SetValue(node.Content[i].Value, v)
	}
	return nil
}

func (dm *DataMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range dm.order {
		entryNode, err := dm.entries[id].yamlNode()
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to encode entry %d", id)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(id)},
			entryNode)
	}
	return node, nil
}

// UnmarshalYAML rebuilds the map from an id => fields document,
// keeping the document's entry and field order.
func (dm *DataMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("Expected mapping node for data map, got kind %d", node.Kind)
	}
	*dm = *NewDataMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		id, err := strconv.Atoi(node.Content[i].Value)
		if err != nil {
			return errors.Errorf("Entry key %q is not an id", node.Content[i].Value)
		}
		e := NewEntry()
		if err := node.Content[i+1].Decode(e); err != nil {
			return errors.Wrapf(err, "Failed to decode entry %d", id)
		}
		if err := dm.AddEntry(id, e); err != nil {
			return errors.Wrapf(err, "Failed to add entry %d", id)
		}
	}
	return nil
}
