package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:distribute"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Distribute Stock"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Stock movement
	{Code: "stock:view", Name: "View Stock"},
	{Code: "stock:adjust", Name: "Adjust Warehouse Stock"},
	{Code: "stock:distribute", Name: "Distribute Stock to Cashier"},
	{Code: "stock:return", Name: "Return Cashier Stock"},
	// Sales
	{Code: "sale:view", Name: "View Sale"},
	{Code: "sale:create", Name: "Create Sale"},
	{Code: "sale:cancel", Name: "Cancel Sale"},
	// Tax settings
	{Code: "tax:view", Name: "View Tax Types"},
	{Code: "tax:manage", Name: "Manage Tax Types"},
	// Dashboard & reports
	{Code: "dashboard:view", Name: "View Dashboard"},
	{Code: "report:view", Name: "View Reports"},
}

// DefaultRolePrivileges is the single authorization policy table: which
// privilege codes each role is granted at seed time. Handlers never compare
// role strings directly; they go through the privilege middleware, so this
// table is the one place the policy can be audited.
var DefaultRolePrivileges = map[string][]string{
	RoleMasterAdmin: allPrivilegeCodes(),
	RoleAdmin: {
		"user:view",
		"product:view", "product:create", "product:update", "product:delete",
		"stock:view", "stock:adjust", "stock:distribute", "stock:return",
		"sale:view", "sale:cancel",
		"tax:view", "tax:manage",
		"dashboard:view", "report:view",
	},
	RoleCashier: {
		"product:view",
		"stock:view", "stock:return",
		"sale:view", "sale:create",
		"tax:view",
		"dashboard:view",
	},
}

func allPrivilegeCodes() []string {
	codes := make([]string, len(DefaultPrivileges))
	for i, p := range DefaultPrivileges {
		codes[i] = p.Code
	}
	return codes
}
