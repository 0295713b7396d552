// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Category is the closed set of furniture categories.
type Category string

const (
	CategorySofa     Category = "sofa"
	CategoryArmchair Category = "armchair"
	CategoryTable    Category = "table"
	CategoryBed      Category = "bed"
	CategoryStorage  Category = "storage"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategorySofa, CategoryArmchair, CategoryTable, CategoryBed, CategoryStorage:
		return true
	}
	return false
}

// Categories lists all valid categories.
func Categories() []Category {
	return []Category{CategorySofa, CategoryArmchair, CategoryTable, CategoryBed, CategoryStorage}
}

// Product represents a made-to-order furniture item with its option catalog.
type Product struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SKU          string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name         string         `gorm:"not null;size:255" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description  string         `gorm:"type:text" json:"description"`
	ShortDesc    string         `gorm:"size:500" json:"short_description"`
	BasePrice    int64          `gorm:"not null" json:"base_price"` // cents
	Category     Category       `gorm:"not null;size:30;index" json:"category"`
	LeadTimeDays int            `gorm:"not null;default:14" json:"lead_time_days"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsFeatured   bool           `gorm:"default:false" json:"is_featured"`

	// 3D model metadata for the product configurator
	ModelURL        string `gorm:"size:500" json:"model_url"`
	ModelFormat     string `gorm:"size:20" json:"model_format"` // glb, gltf, usdz
	ModelPreviewURL string `gorm:"size:500" json:"model_preview_url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Option catalog
	Materials []MaterialOption `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"materials,omitempty"`
	Colors    []ColorOption    `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"colors,omitempty"`
	Fabrics   []FabricOption   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"fabrics,omitempty"`
	Sizes     []SizeOption     `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sizes,omitempty"`
	Images    []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// MaterialOption is a selectable material (oak, walnut, steel) with a price modifier.
type MaterialOption struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	Name          string    `gorm:"not null;size:100" json:"name"`
	PriceModifier int64     `gorm:"default:0" json:"price_modifier"` // cents, may be negative
	IsDefault     bool      `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ColorOption is a selectable finish color with a price modifier.
type ColorOption struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	Name          string    `gorm:"not null;size:100" json:"name"`
	HexCode       string    `gorm:"size:7" json:"hex_code"`
	PriceModifier int64     `gorm:"default:0" json:"price_modifier"`
	IsDefault     bool      `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FabricOption is a selectable upholstery fabric, grouped by fabric category.
type FabricOption struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"not null;index" json:"product_id"`
	Name           string    `gorm:"not null;size:100" json:"name"`
	FabricCategory string    `gorm:"not null;size:50;index" json:"fabric_category"` // e.g. linen, velvet, leather
	PriceModifier  int64     `gorm:"default:0" json:"price_modifier"`
	IsDefault      bool      `gorm:"default:false" json:"is_default"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SizeOption is a discrete size carrying its own base price. When a size is
// selected it replaces the product base price in the resolved unit price.
type SizeOption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Label      string    `gorm:"not null;size:100" json:"label"` // e.g. "2-seater", "180x90"
	BasePrice  int64     `gorm:"not null" json:"base_price"`     // cents
	WidthCM    int       `json:"width_cm"`
	DepthCM    int       `json:"depth_cm"`
	HeightCM   int       `json:"height_cm"`
	IsDefault  bool      `gorm:"default:false" json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string        { return "products" }
func (MaterialOption) TableName() string { return "material_options" }
func (ColorOption) TableName() string    { return "color_options" }
func (FabricOption) TableName() string   { return "fabric_options" }
func (SizeOption) TableName() string     { return "size_options" }
func (ProductImage) TableName() string   { return "product_images" }

// Business methods

// PrimaryImageURL returns the primary image URL, or the first image, or "".
func (p *Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// FindMaterial looks up a material option by id.
func (p *Product) FindMaterial(id uint) *MaterialOption {
	for i := range p.Materials {
		if p.Materials[i].ID == id {
			return &p.Materials[i]
		}
	}
	return nil
}

// FindColor looks up a color option by id.
func (p *Product) FindColor(id uint) *ColorOption {
	for i := range p.Colors {
		if p.Colors[i].ID == id {
			return &p.Colors[i]
		}
	}
	return nil
}

// FindFabric looks up a fabric option by id.
func (p *Product) FindFabric(id uint) *FabricOption {
	for i := range p.Fabrics {
		if p.Fabrics[i].ID == id {
			return &p.Fabrics[i]
		}
	}
	return nil
}

// FindSize looks up a size option by id.
func (p *Product) FindSize(id uint) *SizeOption {
	for i := range p.Sizes {
		if p.Sizes[i].ID == id {
			return &p.Sizes[i]
		}
	}
	return nil
}

// DefaultConfiguration builds a configuration from the options flagged as default.
func (p *Product) DefaultConfiguration() Configuration {
	cfg := Configuration{}
	for i := range p.Materials {
		if p.Materials[i].IsDefault {
			cfg.SetOptionID(KeyMaterial, p.Materials[i].ID)
			break
		}
	}
	for i := range p.Colors {
		if p.Colors[i].IsDefault {
			cfg.SetOptionID(KeyColor, p.Colors[i].ID)
			break
		}
	}
	for i := range p.Fabrics {
		if p.Fabrics[i].IsDefault {
			cfg.SetOptionID(KeyFabric, p.Fabrics[i].ID)
			break
		}
	}
	for i := range p.Sizes {
		if p.Sizes[i].IsDefault {
			cfg.SetOptionID(KeySize, p.Sizes[i].ID)
			break
		}
	}
	return cfg
}
