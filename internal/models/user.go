package models

import "slices"

// User is a registered account. CategoryIDs and TransactionIDs are
// back-reference lists: ordered child ids kept for enumeration only. The user
// does not own the lifetime of the referenced records.
type User struct {
	Base           `bson:",inline"`
	Handle         string   `gorm:"column:handle;size:50;uniqueIndex;not null" json:"handle" bson:"handle"`
	Email          string   `gorm:"column:email;size:255;uniqueIndex;not null" json:"email" bson:"email"`
	SecretHash     string   `gorm:"column:secret_hash;not null" json:"-" bson:"secret_hash"`
	CategoryIDs    []string `gorm:"column:category_ids;type:text;serializer:json" json:"category_ids" bson:"category_ids"`
	TransactionIDs []string `gorm:"column:transaction_ids;type:text;serializer:json" json:"transaction_ids" bson:"transaction_ids"`
}

// AddCategory appends categoryID unless already present. Reports whether the list changed.
func (u *User) AddCategory(categoryID string) bool {
	return appendUnique(&u.CategoryIDs, categoryID)
}

// RemoveCategory drops categoryID if present. Reports whether the list changed.
func (u *User) RemoveCategory(categoryID string) bool {
	return removeID(&u.CategoryIDs, categoryID)
}

// AddTransaction appends transactionID unless already present. Reports whether the list changed.
func (u *User) AddTransaction(transactionID string) bool {
	return appendUnique(&u.TransactionIDs, transactionID)
}

// RemoveTransaction drops transactionID if present. Reports whether the list changed.
func (u *User) RemoveTransaction(transactionID string) bool {
	return removeID(&u.TransactionIDs, transactionID)
}

func appendUnique(list *[]string, id string) bool {
	if slices.Contains(*list, id) {
		return false
	}
	*list = append(*list, id)
	return true
}

func removeID(list *[]string, id string) bool {
	n := len(*list)
	*list = slices.DeleteFunc(*list, func(s string) bool { return s == id })
	return len(*list) != n
}
