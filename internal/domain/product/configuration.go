// internal/domain/product/configuration.go
package product

import (
	"encoding/json"
	"strconv"
)

// Recognized configuration keys. Unknown keys are carried through opaquely so
// that older backends tolerate configurations written by newer clients.
const (
	KeyMaterial = "materialId"
	KeyColor    = "colorId"
	KeyFabric   = "fabricId"
	KeySize     = "sizeId"
)

// Configuration maps an option-group key to the chosen option id (as a string).
// It is embedded verbatim in cart and order items; structural equality of the
// map, not the insertion order, defines line-item identity.
type Configuration map[string]string

// ParseConfiguration decodes a canonical configuration string. An empty input
// yields an empty configuration.
func ParseConfiguration(s string) (Configuration, error) {
	if s == "" || s == "{}" {
		return Configuration{}, nil
	}
	var cfg Configuration
	if err := json.Unmarshal([]byte(s), &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Canonical returns a deterministic serialized form usable as a uniqueness key.
// json.Marshal emits map keys in sorted order, so two structurally equal
// configurations always canonicalize to the same string.
func (c Configuration) Canonical() string {
	if len(c) == 0 {
		return "{}"
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Equal reports order-insensitive structural equality.
func (c Configuration) Equal(other Configuration) bool {
	if len(c) != len(other) {
		return false
	}
	for k, v := range c {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// OptionID parses the option id stored under key. The second return is false
// when the key is absent or its value is not a positive integer.
func (c Configuration) OptionID(key string) (uint, bool) {
	raw, ok := c[key]
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// SetOptionID stores an option id under key.
func (c Configuration) SetOptionID(key string, id uint) {
	c[key] = strconv.FormatUint(uint64(id), 10)
}

// Clone returns an independent copy.
func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
