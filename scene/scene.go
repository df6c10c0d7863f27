// Package scene loads and saves diagram scenes: an ordered shape list plus
// optional routing and binding configuration overrides.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"diagrid/binding"
	"diagrid/diagram"
	"diagrid/pathfinding"
)

var (
	// ErrUnknownFormat is returned when no decoder accepts a scene.
	ErrUnknownFormat = errors.New("unknown scene format")
	// ErrInvalidScene is returned when a decoded scene is inconsistent.
	ErrInvalidScene = errors.New("invalid scene")
)

// Scene is a document snapshot as stored on disk.
type Scene struct {
	Name    string              `json:"name,omitempty" yaml:"name,omitempty"`
	Routing *pathfinding.Config `json:"routing,omitempty" yaml:"routing,omitempty"`
	Binding *binding.Config     `json:"binding,omitempty" yaml:"binding,omitempty"`
	Shapes  []diagram.Shape     `json:"shapes" yaml:"shapes"`
}

// RouterConfig returns the routing configuration of the scene. Fields the
// scene leaves out keep their defaults.
func (s *Scene) RouterConfig() pathfinding.Config {
	if s.Routing == nil {
		return pathfinding.DefaultConfig
	}
	return pathfinding.NewRouter(*s.Routing).Config()
}

// DetectorConfig returns the binding tolerances of the scene. Fields the
// scene leaves out keep their defaults.
func (s *Scene) DetectorConfig() binding.Config {
	cfg := binding.DefaultConfig
	if s.Binding == nil {
		return cfg
	}
	if s.Binding.HitTolerance > 0 {
		cfg.HitTolerance = s.Binding.HitTolerance
	}
	if s.Binding.AnchorTolerance > 0 {
		cfg.AnchorTolerance = s.Binding.AnchorTolerance
	}
	if s.Binding.EdgeGap > 0 {
		cfg.EdgeGap = s.Binding.EdgeGap
	}
	return cfg
}

// Validate checks that every shape has a unique, non-empty id.
func (s *Scene) Validate() error {
	seen := make(map[string]bool, len(s.Shapes))
	for i, sh := range s.Shapes {
		if sh.ID == "" {
			return fmt.Errorf("shape #%d has no id: %w", i, ErrInvalidScene)
		}
		if seen[sh.ID] {
			return fmt.Errorf("shape id %q used twice: %w", sh.ID, ErrInvalidScene)
		}
		seen[sh.ID] = true
	}
	return nil
}

// Load reads a scene file, picking the decoder by file extension and then
// by content.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	sc, err := DefaultRegistry().Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return sc, nil
}

// Save writes a scene file in the format matching its extension.
func Save(path string, sc *Scene) error {
	codec, err := DefaultRegistry().ForExtension(filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("save scene %s: %w", path, err)
	}
	data, err := codec.Encode(sc)
	if err != nil {
		return fmt.Errorf("save scene %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	return nil
}

// Codec reads and writes one scene format.
type Codec interface {
	// CanDecode checks if the given content looks like this format.
	CanDecode(data []byte) bool

	// Decode parses a scene.
	Decode(data []byte) (*Scene, error)

	// Encode serialises a scene.
	Encode(sc *Scene) ([]byte, error)

	// FormatName returns the human-readable name of the format.
	FormatName() string

	// Extensions returns the file extensions of this format.
	Extensions() []string
}

// Registry manages the available codecs.
type Registry struct {
	codecs []Codec
}

// DefaultRegistry returns a registry with the JSON and YAML codecs. JSON
// comes first since every JSON document is also valid YAML.
func DefaultRegistry() *Registry {
	return &Registry{codecs: []Codec{JSONCodec{}, YAMLCodec{}}}
}

// Register adds a codec.
func (r *Registry) Register(c Codec) {
	r.codecs = append(r.codecs, c)
}

// ForExtension returns the codec handling ext (with or without the dot).
func (r *Registry) ForExtension(ext string) (Codec, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, c := range r.codecs {
		for _, e := range c.Extensions() {
			if e == ext {
				return c, nil
			}
		}
	}
	return nil, fmt.Errorf("extension %q: %w", ext, ErrUnknownFormat)
}

// Detect returns the first codec accepting data.
func (r *Registry) Detect(data []byte) (Codec, error) {
	for _, c := range r.codecs {
		if c.CanDecode(data) {
			return c, nil
		}
	}
	return nil, ErrUnknownFormat
}

// Decode parses data with the codec for ext, or by detection when ext is
// empty or unknown, and validates the result.
func (r *Registry) Decode(data []byte, ext string) (*Scene, error) {
	codec, err := r.ForExtension(ext)
	if err != nil {
		if codec, err = r.Detect(data); err != nil {
			return nil, err
		}
	}
	sc, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", codec.FormatName(), err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}
