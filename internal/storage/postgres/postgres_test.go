package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"cortex":   "%cortex%",
		"100%":     `%100\%%`,
		"snake_id": `%snake\_id%`,
		`a\b`:      `%a\\b%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, containsPattern(in), in)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pq.Error{Code: "23503"}
	assert.True(t, isForeignKeyViolation(fk))
	assert.True(t, isForeignKeyViolation(fmt.Errorf("insert: %w", fk)))
	assert.False(t, isForeignKeyViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
	assert.False(t, isForeignKeyViolation(nil))
}

func TestArrays(t *testing.T) {
	assert.Equal(t, []string{}, fromArray(nil))
	assert.Equal(t, pq.StringArray{}, toArray(nil))
	assert.Equal(t, []string{"a"}, fromArray(pq.StringArray{"a"}))
}
