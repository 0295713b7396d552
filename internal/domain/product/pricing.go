// internal/domain/product/pricing.go
package product

// ResolvePrice computes the unit price in cents for a product configured with
// the given option selections.
//
// The running total starts at the selected size's base price when a resolvable
// sizeId is present, otherwise at the product base price. Material, color and
// fabric selections add their modifiers. An option id that does not belong to
// this product contributes zero; the computation never fails, and an empty
// configuration resolves to the bare base price. The result is independent of
// the configuration map's iteration order.
func ResolvePrice(p *Product, cfg Configuration) int64 {
	price := p.BasePrice

	if id, ok := cfg.OptionID(KeySize); ok {
		if size := p.FindSize(id); size != nil {
			price = size.BasePrice
		}
	}
	if id, ok := cfg.OptionID(KeyMaterial); ok {
		if m := p.FindMaterial(id); m != nil {
			price += m.PriceModifier
		}
	}
	if id, ok := cfg.OptionID(KeyColor); ok {
		if c := p.FindColor(id); c != nil {
			price += c.PriceModifier
		}
	}
	if id, ok := cfg.OptionID(KeyFabric); ok {
		if f := p.FindFabric(id); f != nil {
			price += f.PriceModifier
		}
	}

	// Modifiers may be negative but must never push the price below zero.
	if price < 0 {
		price = 0
	}
	return price
}

// DescribeConfiguration resolves option ids to their display names for cart
// and order projections. Unresolvable or unknown entries are omitted.
func DescribeConfiguration(p *Product, cfg Configuration) map[string]string {
	display := map[string]string{}

	if id, ok := cfg.OptionID(KeyMaterial); ok {
		if m := p.FindMaterial(id); m != nil {
			display["material"] = m.Name
		}
	}
	if id, ok := cfg.OptionID(KeyColor); ok {
		if c := p.FindColor(id); c != nil {
			display["color"] = c.Name
		}
	}
	if id, ok := cfg.OptionID(KeyFabric); ok {
		if f := p.FindFabric(id); f != nil {
			display["fabric"] = f.Name
		}
	}
	if id, ok := cfg.OptionID(KeySize); ok {
		if s := p.FindSize(id); s != nil {
			display["size"] = s.Label
		}
	}
	return display
}
