package model

import "time"

// PolicyRule is a persisted RBAC rule loaded into the casbin enforcer
// at startup: role may perform action on resource.
type PolicyRule struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Role      string    `json:"role" gorm:"type:varchar(50);not null;index"`
	Resource  string    `json:"resource" gorm:"type:varchar(100);not null"`
	Action    string    `json:"action" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default pluralization.
func (PolicyRule) TableName() string {
	return "policy_rules"
}
