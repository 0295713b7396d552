// internal/domain/user/address_service_test.go
package user

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Address{}))

	// DeleteAddress checks for referencing orders through the shared schema;
	// the order model itself lives a package above this one.
	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		shipping_address_id INTEGER NOT NULL,
		billing_address_id INTEGER NOT NULL
	)`).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *User {
	t.Helper()

	u := User{
		Email:        "maya@example.com",
		PasswordHash: "irrelevant",
		FirstName:    "Maya",
		LastName:     "Lindqvist",
		Role:         RoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func addressRequest(label string, isDefault bool) *AddressRequest {
	return &AddressRequest{
		Label:      label,
		FirstName:  "Maya",
		LastName:   "Lindqvist",
		Line1:      label + " street 1",
		City:       "Portland",
		PostalCode: "97201",
		Country:    "US",
		IsDefault:  isDefault,
	}
}

func countDefaults(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&n).Error)
	return n
}

func TestCreateAddressFirstBecomesDefault(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewAddressService(db)

	a, err := svc.CreateAddress(u.ID, addressRequest("home", false))
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
	assert.Equal(t, int64(1), countDefaults(t, db, u.ID))
}

func TestCreateSecondDefaultFlipsPrevious(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewAddressService(db)

	a, err := svc.CreateAddress(u.ID, addressRequest("home", true))
	require.NoError(t, err)
	b, err := svc.CreateAddress(u.ID, addressRequest("office", true))
	require.NoError(t, err)
	assert.True(t, b.IsDefault)

	reloaded, err := svc.GetAddress(u.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
	assert.Equal(t, int64(1), countDefaults(t, db, u.ID))
}

func TestSetDefaultAddressLeavesExactlyOneDefault(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewAddressService(db)

	a, err := svc.CreateAddress(u.ID, addressRequest("home", false))
	require.NoError(t, err)
	b, err := svc.CreateAddress(u.ID, addressRequest("office", false))
	require.NoError(t, err)
	require.True(t, a.IsDefault) // first address auto-promoted
	require.False(t, b.IsDefault)

	flipped, err := svc.SetDefaultAddress(u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, flipped.IsDefault)

	reloaded, err := svc.GetAddress(u.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
	assert.Equal(t, int64(1), countDefaults(t, db, u.ID))
}

func TestDeleteDefaultPromotesOldestRemaining(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewAddressService(db)

	a, err := svc.CreateAddress(u.ID, addressRequest("home", true))
	require.NoError(t, err)
	b, err := svc.CreateAddress(u.ID, addressRequest("office", false))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAddress(u.ID, a.ID))

	reloaded, err := svc.GetAddress(u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsDefault)
	assert.Equal(t, int64(1), countDefaults(t, db, u.ID))
}

func TestAddressOwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	svc := NewAddressService(db)

	other := User{Email: "jon@example.com", PasswordHash: "irrelevant", FirstName: "Jon", LastName: "Berg", Role: RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	a, err := svc.CreateAddress(u.ID, addressRequest("home", true))
	require.NoError(t, err)

	_, err = svc.GetAddress(other.ID, a.ID)
	assert.Error(t, err)
}
