package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestCustomTags(t *testing.T) {
	v := validator.New()
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("handle", validateHandle)

	cases := []struct {
		tag   string
		value string
		ok    bool
	}{
		{"transaction_type", "INCOME", true},
		{"transaction_type", "EXPENSE", true},
		{"transaction_type", "income", false},
		{"transaction_type", "TRANSFER", false},
		{"handle", "alice_01", true},
		{"handle", "ab", false},
		{"handle", "has space", false},
	}
	for _, tc := range cases {
		err := v.Var(tc.value, tc.tag)
		if (err == nil) != tc.ok {
			t.Errorf("%s(%q): expected ok=%v, got err=%v", tc.tag, tc.value, tc.ok, err)
		}
	}
}
