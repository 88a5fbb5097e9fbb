package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
)

func TestTranslate(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pq.Error{Code: pgUniqueViolation}, ErrDuplicate},
		{"foreign key violation", &pq.Error{Code: pgForeignKeyViolation}, ErrReferenced},
		{"other pq error", &pq.Error{Code: "42P01"}, nil},
		{"plain error", plain, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			if tt.want != nil && !errors.Is(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if tt.want == nil && got != tt.err {
				t.Errorf("Expected error unchanged, got %v", got)
			}
			if !errors.Is(got, tt.err) {
				t.Error("Original error must stay in the chain")
			}
		})
	}
}
