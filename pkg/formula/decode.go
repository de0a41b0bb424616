package formula

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Decoder turns raw manifest bytes into a Package.
type Decoder interface {
	Decode(data []byte) (*Package, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func([]byte) (*Package, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (*Package, error) { return f(data) }

// TOMLDecoder decodes beer_package.toml manifests.
type TOMLDecoder struct{}

// Decode parses data and validates the result. Keys the Package type does
// not know about are reported as errors.
func (TOMLDecoder) Decode(data []byte) (*Package, error) {
	var pkg Package
	md, err := toml.Decode(string(data), &pkg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return &pkg, nil
}

var _ Decoder = TOMLDecoder{}
