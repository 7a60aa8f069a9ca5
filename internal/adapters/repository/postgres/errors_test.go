package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		unique    bool
		transient bool
	}{
		{"unique violation", &pq.Error{Code: "23505"}, true, false},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true, false},
		{"serialization failure", &pq.Error{Code: "40001"}, false, true},
		{"deadlock", &pq.Error{Code: "40P01"}, false, true},
		{"connection failure", &pq.Error{Code: "08006"}, false, true},
		{"syntax error", &pq.Error{Code: "42601"}, false, false},
		{"plain error", errors.New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
			assert.Equal(t, tt.transient, isTransient(tt.err))
		})
	}
}

func TestTransientWrapsSentinel(t *testing.T) {
	err := transient("commit transaction", &pq.Error{Code: "40001", Message: "could not serialize access"})
	assert.ErrorIs(t, err, domain.ErrTransientStore)
	assert.Equal(t, domain.KindTransient, domain.KindOf(err))
	assert.Contains(t, err.Error(), "commit transaction")
}
