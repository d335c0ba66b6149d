package core

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyPassword = errors.New("empty password")
)

type (
	// User is one registered account, keyed by phone number.
	User struct {
		Phone    string `json:"phone"`
		Name     string `json:"name"`
		Password string `json:"password"`
		// Profile holds any extra fields captured at registration
		// (email, age, city, ...). Stored verbatim.
		Profile map[string]string `json:"profile,omitempty"`
	}

	// FinancialRecord is the per-user snapshot of financial position.
	// Fields are pointers so that "not available" and "known to be zero"
	// stay distinct: a nil field was never reported, a zero field was.
	FinancialRecord struct {
		BankBalance *int64 `json:"bank_balance,omitempty"`
		MutualFunds *int64 `json:"mutual_funds,omitempty"`
		Stocks      *int64 `json:"stocks,omitempty"`
		Loan        *int64 `json:"loan,omitempty"`
		CreditScore *int64 `json:"credit_score,omitempty"`
	}
)

func (u User) Validate() error {
	if err := ValidatePhone(u.Phone); err != nil {
		return err
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if u.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// ValidatePhone requires a non-empty all-digit identifier.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrInvalidPhone
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return ErrInvalidPhone
		}
	}
	return nil
}

// IsEmpty reports whether no field of the record has ever been set.
func (r FinancialRecord) IsEmpty() bool {
	return r.BankBalance == nil && r.MutualFunds == nil && r.Stocks == nil &&
		r.Loan == nil && r.CreditScore == nil
}

// NetWorth aggregates assets minus loan, substituting zero for absent
// fields. Aggregation deliberately differs from single-field reporting,
// which treats absence as "not available".
func (r FinancialRecord) NetWorth() int64 {
	return orZero(r.BankBalance) + orZero(r.MutualFunds) + orZero(r.Stocks) - orZero(r.Loan)
}

// Merge returns a copy of r with every non-nil field of updates applied.
// Nil fields in updates leave the existing value untouched.
func (r FinancialRecord) Merge(updates FinancialRecord) FinancialRecord {
	out := r
	if updates.BankBalance != nil {
		out.BankBalance = updates.BankBalance
	}
	if updates.MutualFunds != nil {
		out.MutualFunds = updates.MutualFunds
	}
	if updates.Stocks != nil {
		out.Stocks = updates.Stocks
	}
	if updates.Loan != nil {
		out.Loan = updates.Loan
	}
	if updates.CreditScore != nil {
		out.CreditScore = updates.CreditScore
	}
	return out
}

// ZeroRecord returns a record with every field explicitly set to zero,
// the state a fresh registration starts from.
func ZeroRecord() FinancialRecord {
	return FinancialRecord{
		BankBalance: Int64(0),
		MutualFunds: Int64(0),
		Stocks:      Int64(0),
		Loan:        Int64(0),
		CreditScore: Int64(0),
	}
}

// Int64 returns a pointer to v, for building records literally.
func Int64(v int64) *int64 { return &v }

func orZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
