package models

// Category groups a user's transactions. (UserID, Name) is unique.
type Category struct {
	Base   `bson:",inline"`
	UserID string `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_categories_user_name" json:"user_id" bson:"user_id"`
	Name   string `gorm:"column:name;size:100;not null;uniqueIndex:idx_categories_user_name" json:"name" bson:"name"`
}
