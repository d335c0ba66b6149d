package core

import "testing"

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"9823533097", true},
		{" 9823533097 ", true},
		{"", false},
		{"   ", false},
		{"98-235", false},
		{"abc", false},
	}
	for _, tc := range cases {
		err := ValidatePhone(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ValidatePhone(%q) = %v, want nil", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ValidatePhone(%q) expected error", tc.in)
		}
	}
}

func TestUserValidate(t *testing.T) {
	u := User{Phone: "9823533097", Name: "Demo User", Password: "demo123"}
	if err := u.Validate(); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	cases := []struct {
		name string
		u    User
		want error
	}{
		{"bad phone", User{Phone: "x", Name: "A", Password: "p"}, ErrInvalidPhone},
		{"empty name", User{Phone: "123", Name: "  ", Password: "p"}, ErrEmptyName},
		{"empty password", User{Phone: "123", Name: "A"}, ErrEmptyPassword},
	}
	for _, tc := range cases {
		if err := tc.u.Validate(); err != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestNetWorth(t *testing.T) {
	cases := []struct {
		name string
		r    FinancialRecord
		want int64
	}{
		{"all absent", FinancialRecord{}, 0},
		{
			"full record",
			FinancialRecord{
				BankBalance: Int64(850000),
				MutualFunds: Int64(600000),
				Stocks:      Int64(400000),
				Loan:        Int64(300000),
			},
			1550000,
		},
		{"absent fields count as zero", FinancialRecord{BankBalance: Int64(500)}, 500},
		{"loan exceeds assets", FinancialRecord{BankBalance: Int64(1000), Loan: Int64(5000)}, -4000},
	}
	for _, tc := range cases {
		if got := tc.r.NetWorth(); got != tc.want {
			t.Fatalf("%s: NetWorth() = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestMergePreservesAbsence(t *testing.T) {
	base := FinancialRecord{BankBalance: Int64(100), Loan: Int64(50)}
	merged := base.Merge(FinancialRecord{BankBalance: Int64(200)})

	if merged.BankBalance == nil || *merged.BankBalance != 200 {
		t.Fatalf("bank balance not updated: %+v", merged)
	}
	if merged.Loan == nil || *merged.Loan != 50 {
		t.Fatalf("loan lost during merge: %+v", merged)
	}
	if merged.Stocks != nil {
		t.Fatalf("absent field materialized during merge: %+v", merged)
	}
}

func TestMergeCanSetZero(t *testing.T) {
	// Zero is a reported value and must survive a merge.
	merged := FinancialRecord{Loan: Int64(300)}.Merge(FinancialRecord{Loan: Int64(0)})
	if merged.Loan == nil || *merged.Loan != 0 {
		t.Fatalf("explicit zero not applied: %+v", merged)
	}
}

func TestZeroRecordIsNotEmpty(t *testing.T) {
	if ZeroRecord().IsEmpty() {
		t.Fatal("ZeroRecord reported as empty")
	}
	if !(FinancialRecord{}).IsEmpty() {
		t.Fatal("empty record not reported as empty")
	}
}
