package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finpal/internal/core"
)

func TestUserRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, found, _ := s.GetUser(ctx, "123"); found {
		t.Fatal("unexpected user in empty store")
	}

	u := core.User{Phone: "123", Name: "Asha", Password: "pw", Profile: map[string]string{"city": "Pune"}}
	if err := s.PutUser(ctx, u); err != nil {
		t.Fatalf("PutUser: %v", err)
	}

	got, found, err := s.GetUser(ctx, "123")
	if err != nil || !found {
		t.Fatalf("GetUser: found=%v err=%v", found, err)
	}
	if got.Name != "Asha" || got.Profile["city"] != "Pune" {
		t.Fatalf("GetUser = %+v", got)
	}
}

func TestPutUserValidates(t *testing.T) {
	s := New()
	if err := s.PutUser(context.Background(), core.User{Phone: "not-a-phone", Name: "X", Password: "p"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGetRecordUnknownPhoneIsEmpty(t *testing.T) {
	s := New()
	rec, err := s.GetRecord(context.Background(), "555")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if !rec.IsEmpty() {
		t.Fatalf("expected empty record, got %+v", rec)
	}
}

func TestMergeRecord(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.PutRecord(ctx, "123", core.FinancialRecord{BankBalance: core.Int64(100)}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	merged, err := s.MergeRecord(ctx, "123", core.FinancialRecord{Loan: core.Int64(0)})
	if err != nil {
		t.Fatalf("MergeRecord: %v", err)
	}
	if merged.BankBalance == nil || *merged.BankBalance != 100 {
		t.Fatalf("existing field lost: %+v", merged)
	}
	if merged.Loan == nil || *merged.Loan != 0 {
		t.Fatalf("zero update not applied: %+v", merged)
	}
	if merged.Stocks != nil {
		t.Fatalf("absent field materialized: %+v", merged)
	}
}

func TestNewFromFilesSeedsDemoUser(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)

	u, found, err := s.GetUser(context.Background(), "9823533097")
	if err != nil || !found {
		t.Fatalf("demo user not seeded: found=%v err=%v", found, err)
	}
	if u.Name != "Demo User" {
		t.Fatalf("unexpected demo user: %+v", u)
	}

	rec, _ := s.GetRecord(context.Background(), "9823533097")
	if rec.BankBalance == nil || *rec.BankBalance != 850000 {
		t.Fatalf("demo finance record not seeded: %+v", rec)
	}

	// Seeding must have written the starter documents.
	for _, name := range []string{"users.json", "finance.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("starter document %s missing: %v", name, err)
		}
	}
}

func TestPersistenceSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1 := NewFromFiles(dir)
	if err := s1.PutUser(ctx, core.User{Phone: "111", Name: "Ravi", Password: "pw"}); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	if err := s1.PutRecord(ctx, "111", core.FinancialRecord{Stocks: core.Int64(42000)}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	s2 := NewFromFiles(dir)
	if _, found, _ := s2.GetUser(ctx, "111"); !found {
		t.Fatal("user lost across reload")
	}
	rec, _ := s2.GetRecord(ctx, "111")
	if rec.Stocks == nil || *rec.Stocks != 42000 {
		t.Fatalf("record lost across reload: %+v", rec)
	}
	// Absence must round-trip through the JSON files too.
	if rec.Loan != nil {
		t.Fatalf("absent field materialized across reload: %+v", rec)
	}
}
