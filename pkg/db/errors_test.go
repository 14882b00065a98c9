package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
		{
			name: "postgres sqlstate",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}),
			want: true,
		},
		{
			name: "postgres other sqlstate",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}),
			want: false,
		},
		{
			name: "postgres message fallback",
			err:  errors.New(`duplicate key value violates unique constraint "users_email_key"`),
			want: true,
		},
		{
			name: "sqlite message",
			err:  errors.New("UNIQUE constraint failed: users.email"),
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
