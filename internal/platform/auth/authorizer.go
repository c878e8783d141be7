package auth

import (
	"fmt"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// Roles known to the shop, lowest privilege first.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// rbacModel grants a role every rule of the roles it inherits. Paths use keyMatch2 patterns.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// DefaultPolicies is the route table seeded into an empty policy store.
var DefaultPolicies = [][]string{
	{RoleCustomer, "/me", "GET"},
	{RoleCustomer, "/me", "PUT"},
	{RoleCustomer, "/order", "POST"},
	{RoleCustomer, "/orders/me", "GET"},
	{RoleCustomer, "/order/:id", "GET"},
	{RoleCustomer, "/order/cancel/:id", "PATCH"},
	{RoleCustomer, "/cart", "*"},
	{RoleCustomer, "/cart/:productId", "*"},
	{RoleCustomer, "/create_payment_url", "POST"},
	{RoleCustomer, "/voucher/quote", "POST"},
	{RoleCustomer, "/recommend/:userId", "GET"},
	{RoleCustomer, "/chatbot", "POST"},
	{RoleCustomer, "/messages/:roomId", "GET"},

	{RoleStaff, "/orders", "GET"},
	{RoleStaff, "/order/:id", "PATCH"},
	{RoleStaff, "/product", "POST"},
	{RoleStaff, "/product/:id", "*"},
	{RoleStaff, "/product-delete-multiple", "PATCH"},
	{RoleStaff, "/vouchers", "GET"},
	{RoleStaff, "/voucher", "POST"},
	{RoleStaff, "/voucher/:id", "*"},
	{RoleStaff, "/payments/:txnRef", "GET"},
	{RoleStaff, "/forecast", "GET"},
	{RoleStaff, "/business-strategy", "GET"},
	{RoleStaff, "/predicted-leads", "GET"},
	{RoleStaff, "/insights", "GET"},

	{RoleAdmin, "/users", "GET"},
	{RoleAdmin, "/user/:id", "PATCH"},
}

// DefaultRoleInheritance makes staff a customer and admin a staff member.
var DefaultRoleInheritance = [][]string{
	{RoleStaff, RoleCustomer},
	{RoleAdmin, RoleStaff},
}

// Authorizer answers whether a role may call a route.
type Authorizer struct {
	mu        sync.RWMutex
	enforcer  casbin.IEnforcer
	persisted bool
}

// NewAuthorizer builds an enforcer over adapter, or an in-memory policy set when adapter is nil,
// and seeds the default policies that are missing.
func NewAuthorizer(adapter persist.Adapter) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	var enforcer *casbin.Enforcer
	if adapter != nil {
		enforcer, err = casbin.NewEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, err
	}
	if _, err := enforcer.AddPoliciesEx(DefaultPolicies); err != nil {
		return nil, fmt.Errorf("seed policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPoliciesEx(DefaultRoleInheritance); err != nil {
		return nil, fmt.Errorf("seed role inheritance: %w", err)
	}
	return &Authorizer{enforcer: enforcer, persisted: adapter != nil}, nil
}

// NewGormAuthorizer persists policies in the casbin_rule table of db.
func NewGormAuthorizer(db *gorm.DB) (*Authorizer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin gorm adapter: %w", err)
	}
	return NewAuthorizer(adapter)
}

// Allowed reports whether role may perform method on path.
func (a *Authorizer) Allowed(role, path, method string) (bool, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return false, nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enforcer.Enforce(role, path, strings.ToUpper(method))
}

// Reload refreshes the policy set from the store. In-memory policies are left as they are.
func (a *Authorizer) Reload() error {
	if !a.persisted {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enforcer.LoadPolicy()
}
