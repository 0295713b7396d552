// internal/domain/product/pricing_test.go
package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSofa() *Product {
	return &Product{
		ID:        1,
		Name:      "Oslo Sofa",
		BasePrice: 80000, // $800.00
		Category:  CategorySofa,
		Materials: []MaterialOption{
			{ID: 10, Name: "Oak", PriceModifier: 0, IsDefault: true},
			{ID: 11, Name: "Walnut", PriceModifier: 15000},
			{ID: 12, Name: "Reclaimed Pine", PriceModifier: -5000},
		},
		Colors: []ColorOption{
			{ID: 20, Name: "Natural", PriceModifier: 0, IsDefault: true},
			{ID: 21, Name: "Ebony Stain", PriceModifier: 4000},
		},
		Fabrics: []FabricOption{
			{ID: 30, Name: "Linen Sand", FabricCategory: "linen", PriceModifier: 0, IsDefault: true},
			{ID: 31, Name: "Velvet Forest", FabricCategory: "velvet", PriceModifier: 12000},
		},
		Sizes: []SizeOption{
			{ID: 40, Label: "2-seater", BasePrice: 80000, IsDefault: true},
			{ID: 41, Label: "3-seater", BasePrice: 110000},
		},
	}
}

func TestResolvePrice_BaseOnly(t *testing.T) {
	p := testSofa()
	assert.Equal(t, int64(80000), ResolvePrice(p, Configuration{}))
	assert.Equal(t, int64(80000), ResolvePrice(p, nil))
}

func TestResolvePrice_SizeReplacesBase(t *testing.T) {
	p := testSofa()

	cfg := Configuration{}
	cfg.SetOptionID(KeySize, 41)
	assert.Equal(t, int64(110000), ResolvePrice(p, cfg))

	cfg.SetOptionID(KeyMaterial, 11)
	assert.Equal(t, int64(125000), ResolvePrice(p, cfg))
}

func TestResolvePrice_SumsModifiers(t *testing.T) {
	p := testSofa()

	cfg := Configuration{}
	cfg.SetOptionID(KeyMaterial, 11) // +15000
	cfg.SetOptionID(KeyColor, 21)    // +4000
	cfg.SetOptionID(KeyFabric, 31)   // +12000

	assert.Equal(t, int64(111000), ResolvePrice(p, cfg))
}

func TestResolvePrice_NegativeModifier(t *testing.T) {
	p := testSofa()

	cfg := Configuration{}
	cfg.SetOptionID(KeyMaterial, 12) // -5000
	assert.Equal(t, int64(75000), ResolvePrice(p, cfg))
}

func TestResolvePrice_ClampsAtZero(t *testing.T) {
	p := testSofa()
	p.BasePrice = 3000
	p.Materials[2].PriceModifier = -10000

	cfg := Configuration{}
	cfg.SetOptionID(KeyMaterial, 12)
	assert.Equal(t, int64(0), ResolvePrice(p, cfg))
}

func TestResolvePrice_UnknownOptionsContributeZero(t *testing.T) {
	p := testSofa()

	cfg := Configuration{
		KeyMaterial: "999",       // not an option of this product
		KeySize:     "888",       // unknown size keeps the product base
		KeyColor:    "not-an-id", // unparsable
		"finishId":  "7",         // unrecognized key carried opaquely
	}
	assert.Equal(t, int64(80000), ResolvePrice(p, cfg))
}

func TestResolvePrice_OrderIndependent(t *testing.T) {
	p := testSofa()

	a := Configuration{KeyMaterial: "11", KeyFabric: "31", KeySize: "41"}
	b := Configuration{KeySize: "41", KeyFabric: "31", KeyMaterial: "11"}

	require.True(t, a.Equal(b))
	assert.Equal(t, ResolvePrice(p, a), ResolvePrice(p, b))
}

func TestDescribeConfiguration(t *testing.T) {
	p := testSofa()

	cfg := Configuration{}
	cfg.SetOptionID(KeyMaterial, 11)
	cfg.SetOptionID(KeyFabric, 31)
	cfg.SetOptionID(KeySize, 41)
	cfg["colorId"] = "999"

	display := DescribeConfiguration(p, cfg)
	assert.Equal(t, "Walnut", display["material"])
	assert.Equal(t, "Velvet Forest", display["fabric"])
	assert.Equal(t, "3-seater", display["size"])
	assert.NotContains(t, display, "color")
}

func TestDefaultConfiguration(t *testing.T) {
	p := testSofa()

	cfg := p.DefaultConfiguration()
	id, ok := cfg.OptionID(KeyMaterial)
	require.True(t, ok)
	assert.Equal(t, uint(10), id)

	id, ok = cfg.OptionID(KeySize)
	require.True(t, ok)
	assert.Equal(t, uint(40), id)

	// Default configuration of the test sofa resolves to the 2-seater base.
	assert.Equal(t, int64(80000), ResolvePrice(p, cfg))
}
