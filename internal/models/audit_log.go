package models

// AuditLog records mutating user operations.
type AuditLog struct {
	Base         `bson:",inline"`
	UserID       string `gorm:"column:user_id;type:varchar(36);index" json:"user_id" bson:"user_id"`
	Action       string `gorm:"column:action;not null" json:"action" bson:"action"`
	ResourceType string `gorm:"column:resource_type;not null" json:"resource_type" bson:"resource_type"`
	ResourceID   string `gorm:"column:resource_id;type:varchar(36)" json:"resource_id" bson:"resource_id"`
	IPAddress    string `gorm:"column:ip_address" json:"ip_address" bson:"ip_address"`
	Changes      string `gorm:"column:changes;type:text" json:"changes,omitempty" bson:"changes,omitempty"`
}
