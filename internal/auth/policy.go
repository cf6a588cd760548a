package auth

// Capability is the access level a resource action demands.
type Capability int

const (
	CapPublic Capability = iota
	CapAuthenticated
	CapAdmin
)

type Resource string

const (
	ResourceCustomers Resource = "customers"
	ResourceProducts  Resource = "products"
	ResourceOrders    Resource = "orders"
)

type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// policy maps (resource, action) to the required capability. Order reads
// require authentication: orders expose customer data, so the open read
// some deployments had is treated as an oversight.
var policy = map[Resource]map[Action]Capability{
	ResourceCustomers: {
		ActionList:          CapPublic,
		ActionRetrieve:      CapPublic,
		ActionCreate:        CapAuthenticated,
		ActionUpdate:        CapAdmin,
		ActionPartialUpdate: CapAdmin,
		ActionDestroy:       CapAdmin,
	},
	ResourceProducts: {
		ActionList:          CapPublic,
		ActionRetrieve:      CapPublic,
		ActionCreate:        CapAuthenticated,
		ActionUpdate:        CapAuthenticated,
		ActionPartialUpdate: CapAuthenticated,
		ActionDestroy:       CapAuthenticated,
	},
	ResourceOrders: {
		ActionList:          CapAuthenticated,
		ActionRetrieve:      CapAuthenticated,
		ActionCreate:        CapAuthenticated,
		ActionUpdate:        CapAuthenticated,
		ActionPartialUpdate: CapAuthenticated,
		ActionDestroy:       CapAuthenticated,
	},
}

// Require resolves the capability an action needs. Unknown resources or
// actions fall back to authenticated access.
func Require(res Resource, action Action) Capability {
	if actions, ok := policy[res]; ok {
		if cap, ok := actions[action]; ok {
			return cap
		}
	}
	return CapAuthenticated
}

// Allowed reports whether the identity satisfies the capability.
func Allowed(cap Capability, id *Identity) bool {
	switch cap {
	case CapPublic:
		return true
	case CapAuthenticated:
		return id != nil
	case CapAdmin:
		return id.IsAdmin()
	default:
		return false
	}
}
