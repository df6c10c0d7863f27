package scene

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// JSONCodec handles JSON scenes.
type JSONCodec struct{}

// CanDecode checks if data is a JSON object.
func (JSONCodec) CanDecode(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

// Decode parses a JSON scene.
func (JSONCodec) Decode(data []byte) (*Scene, error) {
	var sc Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Encode writes an indented JSON scene.
func (JSONCodec) Encode(sc *Scene) ([]byte, error) {
	return json.MarshalIndent(sc, "", "  ")
}

// FormatName returns "JSON".
func (JSONCodec) FormatName() string { return "JSON" }

// Extensions returns the JSON file extensions.
func (JSONCodec) Extensions() []string { return []string{"json"} }

// YAMLCodec handles YAML scenes.
type YAMLCodec struct{}

// CanDecode checks if data is a YAML mapping.
func (YAMLCodec) CanDecode(data []byte) bool {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil || len(node.Content) == 0 {
		return false
	}
	return node.Content[0].Kind == yaml.MappingNode
}

// Decode parses a YAML scene. Unknown keys are rejected so typos in
// configuration overrides do not go unnoticed.
func (YAMLCodec) Decode(data []byte) (*Scene, error) {
	var sc Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Encode writes a YAML scene.
func (YAMLCodec) Encode(sc *Scene) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatName returns "YAML".
func (YAMLCodec) FormatName() string { return "YAML" }

// Extensions returns the YAML file extensions.
func (YAMLCodec) Extensions() []string { return []string{"yaml", "yml"} }
