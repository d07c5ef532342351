package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ErrorClassPermanent},
		{"no rows", sql.ErrNoRows, ErrorClassPermanent},
		{"serialization", &pq.Error{Code: "40001"}, ErrorClassSerialization},
		{"deadlock", &pq.Error{Code: "40P01"}, ErrorClassDeadlock},
		{"lock not available", &pq.Error{Code: "55P03"}, ErrorClassTransient},
		{"wrapped deadlock", fmt.Errorf("exec: %w", &pq.Error{Code: "40P01"}), ErrorClassDeadlock},
		{"unique violation", &pq.Error{Code: "23505"}, ErrorClassPermanent},
		{"conn done", sql.ErrConnDone, ErrorClassTransient},
		{"canceled", context.Canceled, ErrorClassPermanent},
		{"other", errors.New("boom"), ErrorClassPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&pq.Error{Code: "40001"}) {
		t.Error("Serialization failures should be retryable")
	}
	if IsRetryable(&pq.Error{Code: "23505"}) {
		t.Error("Unique violations should not be retryable")
	}
}
