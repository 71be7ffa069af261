package models

import "time"

// TransactionType represents the kind of a transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the two supported kinds.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense entry.
//
// CategoryName is a copy of the category's name taken when the transaction was
// last written. Renaming the category does not update it.
type Transaction struct {
	Base         `bson:",inline"`
	Type         TransactionType `gorm:"column:type;size:16;not null;index" json:"type" bson:"type"`
	CategoryID   string          `gorm:"column:category_id;type:varchar(36);not null;index" json:"category_id" bson:"category_id"`
	CategoryName string          `gorm:"column:category_name;size:100" json:"category_name" bson:"category_name"`
	Description  string          `gorm:"column:description;size:500" json:"description" bson:"description"`
	Date         time.Time       `gorm:"column:date;not null;index" json:"date" bson:"date"`
	Amount       float64         `gorm:"column:amount;not null" json:"amount" bson:"amount"`
	UserID       string          `gorm:"column:user_id;type:varchar(36);not null;index" json:"user_id" bson:"user_id"`
}
