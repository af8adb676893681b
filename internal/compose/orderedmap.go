package compose

import "gopkg.in/yaml.v3"

// OrderedMap is a string-keyed map that remembers insertion order and
// serializes in that order, since gopkg.in/yaml.v3 has no notion of
// "sort_keys=False" for a plain Go map (whose iteration order is
// meaningless by language design).
type OrderedMap struct {
	keys   []string
	values map[string]any
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: map[string]any{}}
}

// Set assigns key, appending it to the key order on first assignment.
func (m *OrderedMap) Set(key string, value any) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func (m *OrderedMap) Keys() []string {
	return m.keys
}

// MarshalYAML renders the map as a yaml.Node mapping, emitting keys in
// insertion order instead of yaml.v3's default (which would marshal a
// plain map[string]any with sorted keys).
func (m *OrderedMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(k); err != nil {
			return nil, err
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(m.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
