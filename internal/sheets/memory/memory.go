// Package memory is an in-process sheets mirror used when no spreadsheet is
// configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/core"
	ports "financas/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	rows []ports.Row
}

var _ ports.Mirror = (*Sheet)(nil)

func New() *Sheet {
	return &Sheet{}
}

// AppendTransaction stores the row and returns a synthetic row reference.
func (s *Sheet) AppendTransaction(_ context.Context, r ports.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, r)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

func (s *Sheet) DeleteTransaction(_ context.Context, id int64, _ core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.rows[:0]
	for _, r := range s.rows {
		if r.ID != id {
			out = append(out, r)
		}
	}
	s.rows = out
	return nil
}

// Rows returns a copy of the mirrored rows in append order.
func (s *Sheet) Rows() []ports.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Row(nil), s.rows...)
}
