// internal/domain/product/configuration_test.go
package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationCanonical_SortedAndStable(t *testing.T) {
	a := Configuration{"sizeId": "41", "materialId": "11", "colorId": "21"}
	b := Configuration{"colorId": "21", "sizeId": "41", "materialId": "11"}

	assert.Equal(t, a.Canonical(), b.Canonical())
	assert.Equal(t, `{"colorId":"21","materialId":"11","sizeId":"41"}`, a.Canonical())
}

func TestConfigurationCanonical_Empty(t *testing.T) {
	assert.Equal(t, "{}", Configuration{}.Canonical())
	assert.Equal(t, "{}", Configuration(nil).Canonical())
}

func TestParseConfiguration_RoundTrip(t *testing.T) {
	orig := Configuration{"materialId": "11", "fabricId": "31"}

	parsed, err := ParseConfiguration(orig.Canonical())
	require.NoError(t, err)
	assert.True(t, orig.Equal(parsed))
}

func TestParseConfiguration_Empty(t *testing.T) {
	for _, in := range []string{"", "{}"} {
		cfg, err := ParseConfiguration(in)
		require.NoError(t, err)
		assert.Empty(t, cfg)
	}
}

func TestParseConfiguration_Invalid(t *testing.T) {
	_, err := ParseConfiguration(`{"materialId":`)
	assert.Error(t, err)
}

func TestConfigurationEqual(t *testing.T) {
	a := Configuration{"materialId": "11", "colorId": "21"}

	assert.True(t, a.Equal(Configuration{"colorId": "21", "materialId": "11"}))
	assert.False(t, a.Equal(Configuration{"materialId": "11"}))
	assert.False(t, a.Equal(Configuration{"materialId": "11", "colorId": "22"}))
	assert.False(t, a.Equal(Configuration{"materialId": "11", "fabricId": "21"}))
}

func TestConfigurationOptionID(t *testing.T) {
	cfg := Configuration{"materialId": "11", "colorId": "zero", "fabricId": "0"}

	id, ok := cfg.OptionID(KeyMaterial)
	require.True(t, ok)
	assert.Equal(t, uint(11), id)

	_, ok = cfg.OptionID(KeyColor)
	assert.False(t, ok)

	_, ok = cfg.OptionID(KeyFabric)
	assert.False(t, ok)

	_, ok = cfg.OptionID(KeySize)
	assert.False(t, ok)
}

func TestConfigurationClone_Independent(t *testing.T) {
	orig := Configuration{"materialId": "11"}
	clone := orig.Clone()
	clone.SetOptionID(KeyColor, 21)

	assert.NotContains(t, orig, KeyColor)
	assert.Contains(t, clone, KeyColor)
}
