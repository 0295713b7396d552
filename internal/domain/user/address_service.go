// internal/domain/user/address_service.go
package user

import (
	"errors"
	"fmt"

	"github.com/your-org/furniture-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// AddressService handles address book business logic
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// AddressRequest represents address creation/update data
type AddressRequest struct {
	Label      string `json:"label"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required,len=2"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

// ListAddresses returns the user's address book, default first.
func (s *AddressService) ListAddresses(userID uint) ([]Address, error) {
	var addresses []Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// GetAddress retrieves an address owned by the user.
func (s *AddressService) GetAddress(userID, addressID uint) (*Address, error) {
	var a Address
	err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("address", addressID)
		}
		return nil, fmt.Errorf("failed to retrieve address: %w", err)
	}
	return &a, nil
}

// CreateAddress adds an address. The first address of a user becomes the
// default automatically.
func (s *AddressService) CreateAddress(userID uint, req *AddressRequest) (*Address, error) {
	a := Address{
		UserID:     userID,
		Label:      req.Label,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count addresses: %w", err)
		}
		if count == 0 {
			a.IsDefault = true
		} else if a.IsDefault {
			if err := unsetDefault(tx, userID); err != nil {
				return err
			}
		}
		if err := tx.Create(&a).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAddress replaces the fields of an owned address.
func (s *AddressService) UpdateAddress(userID, addressID uint, req *AddressRequest) (*Address, error) {
	a, err := s.GetAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !a.IsDefault {
			if err := unsetDefault(tx, userID); err != nil {
				return err
			}
		}
		updates := map[string]interface{}{
			"label":       req.Label,
			"first_name":  req.FirstName,
			"last_name":   req.LastName,
			"line1":       req.Line1,
			"line2":       req.Line2,
			"city":        req.City,
			"state":       req.State,
			"postal_code": req.PostalCode,
			"country":     req.Country,
			"phone":       req.Phone,
			"is_default":  req.IsDefault || a.IsDefault,
		}
		if err := tx.Model(a).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetAddress(userID, addressID)
}

// SetDefaultAddress flips the default flag to the given address. The
// unset-then-set runs in one transaction so no window with zero or two
// defaults is observable.
func (s *AddressService) SetDefaultAddress(userID, addressID uint) (*Address, error) {
	if _, err := s.GetAddress(userID, addressID); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := unsetDefault(tx, userID); err != nil {
			return err
		}
		result := tx.Model(&Address{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true)
		if result.Error != nil {
			return fmt.Errorf("failed to set default address: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("address", addressID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetAddress(userID, addressID)
}

// DeleteAddress removes an owned address. Orders hold addresses by reference,
// so a referenced address cannot be deleted. Deleting the default promotes the
// oldest remaining address, so a non-empty book always has a default.
func (s *AddressService) DeleteAddress(userID, addressID uint) error {
	a, err := s.GetAddress(userID, addressID)
	if err != nil {
		return err
	}

	var orderRefs int64
	err = s.db.Table("orders").
		Where("shipping_address_id = ? OR billing_address_id = ?", addressID, addressID).
		Count(&orderRefs).Error
	if err != nil {
		return fmt.Errorf("failed to check order references: %w", err)
	}
	if orderRefs > 0 {
		return apperrors.InvalidStatef("address %d is used by %d order(s) and cannot be deleted", addressID, orderRefs)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(a).Error; err != nil {
			return fmt.Errorf("failed to delete address: %w", err)
		}
		if a.IsDefault {
			var next Address
			err := tx.Where("user_id = ?", userID).Order("created_at ASC").First(&next).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to find replacement default: %w", err)
			}
			if err := tx.Model(&next).Update("is_default", true).Error; err != nil {
				return fmt.Errorf("failed to promote default address: %w", err)
			}
		}
		return nil
	})
}

func unsetDefault(tx *gorm.DB, userID uint) error {
	if err := tx.Model(&Address{}).Where("user_id = ?", userID).Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to unset default address: %w", err)
	}
	return nil
}
