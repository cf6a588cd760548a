package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		action   Action
		want     Capability
	}{
		{"customer list is public", ResourceCustomers, ActionList, CapPublic},
		{"customer retrieve is public", ResourceCustomers, ActionRetrieve, CapPublic},
		{"customer create needs auth", ResourceCustomers, ActionCreate, CapAuthenticated},
		{"customer update needs admin", ResourceCustomers, ActionUpdate, CapAdmin},
		{"customer partial update needs admin", ResourceCustomers, ActionPartialUpdate, CapAdmin},
		{"customer destroy needs admin", ResourceCustomers, ActionDestroy, CapAdmin},
		{"product list is public", ResourceProducts, ActionList, CapPublic},
		{"product destroy needs auth", ResourceProducts, ActionDestroy, CapAuthenticated},
		{"order list needs auth", ResourceOrders, ActionList, CapAuthenticated},
		{"order retrieve needs auth", ResourceOrders, ActionRetrieve, CapAuthenticated},
		{"unknown action defaults to auth", ResourceProducts, Action("unknown"), CapAuthenticated},
		{"unknown resource defaults to auth", Resource("carts"), ActionList, CapAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Require(tt.resource, tt.action))
		})
	}
}

func TestAllowed(t *testing.T) {
	admin := &Identity{UserID: 1, Role: RoleAdmin}
	user := &Identity{UserID: 2, Role: RoleUser}

	t.Run("public allows anonymous", func(t *testing.T) {
		assert.True(t, Allowed(CapPublic, nil))
	})

	t.Run("authenticated rejects anonymous", func(t *testing.T) {
		assert.False(t, Allowed(CapAuthenticated, nil))
		assert.True(t, Allowed(CapAuthenticated, user))
	})

	t.Run("admin rejects plain user", func(t *testing.T) {
		assert.False(t, Allowed(CapAdmin, user))
		assert.False(t, Allowed(CapAdmin, nil))
		assert.True(t, Allowed(CapAdmin, admin))
	})
}
