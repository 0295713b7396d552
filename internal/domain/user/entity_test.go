// internal/domain/user/entity_test.go
package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullNameAndRole(t *testing.T) {
	u := User{FirstName: "Maya", LastName: "Lindqvist", Role: RoleCustomer}
	assert.Equal(t, "Maya Lindqvist", u.FullName())
	assert.False(t, u.IsAdmin())

	u.Role = RoleAdmin
	assert.True(t, u.IsAdmin())
}

func TestAddressFormat(t *testing.T) {
	a := Address{
		FirstName:  "Maya",
		LastName:   "Lindqvist",
		Line1:      "12 Workshop Lane",
		Line2:      "Unit 4",
		City:       "Portland",
		State:      "OR",
		PostalCode: "97201",
		Country:    "US",
	}

	expected := "Maya Lindqvist\n12 Workshop Lane\nUnit 4\nPortland, OR 97201\nUS"
	assert.Equal(t, expected, a.Format())
}

func TestAddressFormat_MinimalFields(t *testing.T) {
	a := Address{
		FirstName:  "Jon",
		LastName:   "Berg",
		Line1:      "Storgata 1",
		City:       "Oslo",
		PostalCode: "0155",
		Country:    "NO",
	}

	expected := "Jon Berg\nStorgata 1\nOslo 0155\nNO"
	assert.Equal(t, expected, a.Format())
}
