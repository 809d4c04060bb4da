package service

import (
	"context"
	"fmt"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"gorm.io/gorm"
)

// rbacModel is the casbin model: subjects are role names taken straight
// from the user record, so no grouping policies are needed.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// defaultPolicies are installed on first boot when the policy table is empty.
var defaultPolicies = []model.PolicyRule{
	{Role: model.RoleAdmin, Resource: "customers", Action: "read"},
	{Role: model.RoleAdmin, Resource: "products", Action: "read"},
	{Role: model.RoleAdmin, Resource: "products", Action: "write"},
	{Role: model.RoleAdmin, Resource: "products", Action: "delete"},
	{Role: model.RoleCustomer, Resource: "products", Action: "read"},
}

// AuthorizationService は認可サービス
type AuthorizationService struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizationService builds the RBAC enforcer from rules persisted
// in the policy_rules table, seeding the defaults when the table is empty.
func NewAuthorizationService(db *gorm.DB) (*AuthorizationService, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RBAC model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize RBAC enforcer: %w", err)
	}

	rules, err := loadPolicyRules(db)
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if _, err := enforcer.AddPolicy(rule.Role, rule.Resource, rule.Action); err != nil {
			return nil, fmt.Errorf("failed to load policy rule %d: %w", rule.ID, err)
		}
	}

	return &AuthorizationService{enforcer: enforcer}, nil
}

// loadPolicyRules reads persisted rules, installing the defaults first
// if none exist yet.
func loadPolicyRules(db *gorm.DB) ([]model.PolicyRule, error) {
	ctx := context.Background()

	var count int64
	if err := db.WithContext(ctx).Model(&model.PolicyRule{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count policy rules: %w", err)
	}

	if count == 0 {
		seed := make([]model.PolicyRule, len(defaultPolicies))
		copy(seed, defaultPolicies)
		if err := db.WithContext(ctx).Create(&seed).Error; err != nil {
			return nil, fmt.Errorf("failed to seed default policies: %w", err)
		}
	}

	var rules []model.PolicyRule
	if err := db.WithContext(ctx).Order("id").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load policy rules: %w", err)
	}

	return rules, nil
}

// CheckPermission judges whether the user's role may perform action on resource.
func (s *AuthorizationService) CheckPermission(user *model.User, resource, action string) (bool, error) {
	allowed, err := s.enforcer.Enforce(user.Role, resource, action)
	if err != nil {
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}
