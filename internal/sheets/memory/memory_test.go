package memory

import (
	"context"
	"testing"

	"financas/internal/core"
	ports "financas/internal/sheets"
)

func TestSheet_AppendAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		ref, err := s.AppendTransaction(ctx, ports.Row{ID: id, Description: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if ref == "" {
			t.Error("expected a row reference")
		}
	}
	if err := s.DeleteTransaction(ctx, 2, core.Date{}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTransaction(ctx, 99, core.Date{}); err != nil {
		t.Fatalf("missing row should not fail: %v", err)
	}

	rows := s.Rows()
	if len(rows) != 2 || rows[0].ID != 1 || rows[1].ID != 3 {
		t.Fatalf("rows = %+v", rows)
	}
}
