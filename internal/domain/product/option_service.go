// internal/domain/product/option_service.go
package product

import (
	"fmt"

	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// OptionGroup names one of the four configurable option catalogs of a product.
type OptionGroup string

const (
	GroupMaterials OptionGroup = "materials"
	GroupColors    OptionGroup = "colors"
	GroupFabrics   OptionGroup = "fabrics"
	GroupSizes     OptionGroup = "sizes"
)

// Valid reports whether the group is one of the known catalogs.
func (g OptionGroup) Valid() bool {
	switch g {
	case GroupMaterials, GroupColors, GroupFabrics, GroupSizes:
		return true
	}
	return false
}

// AddOptionRequest supplies a new option row for one group. Name applies to
// materials/colors/fabrics, Label and BasePrice to sizes.
type AddOptionRequest struct {
	Name           string `json:"name"`
	HexCode        string `json:"hex_code"`
	FabricCategory string `json:"fabric_category"`
	Label          string `json:"label"`
	BasePrice      int64  `json:"base_price" binding:"omitempty,min=0"`
	WidthCM        int    `json:"width_cm"`
	DepthCM        int    `json:"depth_cm"`
	HeightCM       int    `json:"height_cm"`
	PriceModifier  int64  `json:"price_modifier"`
	IsDefault      bool   `json:"is_default"`
}

// UpdateOptionRequest patches an existing option row. Nil fields keep their
// stored value.
type UpdateOptionRequest struct {
	Name           *string `json:"name"`
	HexCode        *string `json:"hex_code"`
	FabricCategory *string `json:"fabric_category"`
	Label          *string `json:"label"`
	BasePrice      *int64  `json:"base_price" binding:"omitempty,min=0"`
	WidthCM        *int    `json:"width_cm"`
	DepthCM        *int    `json:"depth_cm"`
	HeightCM       *int    `json:"height_cm"`
	PriceModifier  *int64  `json:"price_modifier"`
	IsDefault      *bool   `json:"is_default"`
}

// AddOption appends an option to one of a product's groups. Flagging the new
// option default unsets the group's previous default in the same transaction.
func (s *Service) AddOption(productID uint, group OptionGroup, req *AddOptionRequest) (*Product, error) {
	if !group.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown option group: %s", group))
	}
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}

	row, err := newOptionRow(productID, group, req)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := unsetGroupDefault(tx, productID, group); err != nil {
				return err
			}
		}
		if err := tx.Create(row).Error; err != nil {
			return fmt.Errorf("failed to create option: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(productID)
}

// UpdateOption patches an option row in place. Setting the default flag moves
// it atomically; price modifier and size base-price changes take effect on the
// next price resolution of any cart holding the option.
func (s *Service) UpdateOption(productID, optionID uint, group OptionGroup, req *UpdateOptionRequest) (*Product, error) {
	if !group.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown option group: %s", group))
	}
	if req.BasePrice != nil && *req.BasePrice < 0 {
		return nil, apperrors.BadRequest("base price must not be negative")
	}

	updates := optionUpdates(group, req)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		model := groupModel(group)
		var found int64
		if err := tx.Model(model).Where("id = ? AND product_id = ?", optionID, productID).Count(&found).Error; err != nil {
			return fmt.Errorf("failed to look up option: %w", err)
		}
		if found == 0 {
			return apperrors.NotFound("option", optionID)
		}

		if req.IsDefault != nil && *req.IsDefault {
			if err := unsetGroupDefault(tx, productID, group); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(model).Where("id = ? AND product_id = ?", optionID, productID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update option: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(productID)
}

// DeleteOption removes an option row. Cart lines already holding the option id
// keep it; the pricing resolver treats the vanished id as contributing zero.
func (s *Service) DeleteOption(productID, optionID uint, group OptionGroup) (*Product, error) {
	if !group.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown option group: %s", group))
	}

	result := s.db.Where("id = ? AND product_id = ?", optionID, productID).Delete(groupModel(group))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete option: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("option", optionID)
	}
	return s.GetProduct(productID)
}

// newOptionRow validates the request against the group and builds the row.
func newOptionRow(productID uint, group OptionGroup, req *AddOptionRequest) (interface{}, error) {
	switch group {
	case GroupMaterials:
		if req.Name == "" {
			return nil, apperrors.BadRequest("material name is required")
		}
		return &MaterialOption{ProductID: productID, Name: req.Name, PriceModifier: req.PriceModifier, IsDefault: req.IsDefault}, nil
	case GroupColors:
		if req.Name == "" {
			return nil, apperrors.BadRequest("color name is required")
		}
		return &ColorOption{ProductID: productID, Name: req.Name, HexCode: req.HexCode, PriceModifier: req.PriceModifier, IsDefault: req.IsDefault}, nil
	case GroupFabrics:
		if req.Name == "" || req.FabricCategory == "" {
			return nil, apperrors.BadRequest("fabric name and fabric category are required")
		}
		return &FabricOption{ProductID: productID, Name: req.Name, FabricCategory: req.FabricCategory, PriceModifier: req.PriceModifier, IsDefault: req.IsDefault}, nil
	case GroupSizes:
		if req.Label == "" {
			return nil, apperrors.BadRequest("size label is required")
		}
		if req.BasePrice <= 0 {
			return nil, apperrors.BadRequest("size base price must be positive")
		}
		return &SizeOption{
			ProductID: productID, Label: req.Label, BasePrice: req.BasePrice,
			WidthCM: req.WidthCM, DepthCM: req.DepthCM, HeightCM: req.HeightCM,
			IsDefault: req.IsDefault,
		}, nil
	}
	return nil, apperrors.BadRequest(fmt.Sprintf("unknown option group: %s", group))
}

// optionUpdates maps the non-nil patch fields relevant to the group.
func optionUpdates(group OptionGroup, req *UpdateOptionRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	switch group {
	case GroupMaterials:
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.PriceModifier != nil {
			updates["price_modifier"] = *req.PriceModifier
		}
	case GroupColors:
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.HexCode != nil {
			updates["hex_code"] = *req.HexCode
		}
		if req.PriceModifier != nil {
			updates["price_modifier"] = *req.PriceModifier
		}
	case GroupFabrics:
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.FabricCategory != nil {
			updates["fabric_category"] = *req.FabricCategory
		}
		if req.PriceModifier != nil {
			updates["price_modifier"] = *req.PriceModifier
		}
	case GroupSizes:
		if req.Label != nil {
			updates["label"] = *req.Label
		}
		if req.BasePrice != nil {
			updates["base_price"] = *req.BasePrice
		}
		if req.WidthCM != nil {
			updates["width_cm"] = *req.WidthCM
		}
		if req.DepthCM != nil {
			updates["depth_cm"] = *req.DepthCM
		}
		if req.HeightCM != nil {
			updates["height_cm"] = *req.HeightCM
		}
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	return updates
}

func groupModel(group OptionGroup) interface{} {
	switch group {
	case GroupMaterials:
		return &MaterialOption{}
	case GroupColors:
		return &ColorOption{}
	case GroupFabrics:
		return &FabricOption{}
	default:
		return &SizeOption{}
	}
}

func unsetGroupDefault(tx *gorm.DB, productID uint, group OptionGroup) error {
	if err := tx.Model(groupModel(group)).Where("product_id = ?", productID).Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to unset group default: %w", err)
	}
	return nil
}
