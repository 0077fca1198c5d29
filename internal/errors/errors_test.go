package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFault_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Fault
		want string
	}{
		{
			name: "fault without underlying error",
			err:  New(MalformedInput, "undecodable calldata"),
			want: "[malformed_input] undecodable calldata",
		},
		{
			name: "fault with underlying error",
			err:  Wrap(Transient, "query failed", errors.New("connection reset")),
			want: "[transient] query failed: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestFault_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	f := Wrap(Invariant, "test", underlying)

	assert.Equal(t, underlying, f.Unwrap())
	assert.True(t, errors.Is(f, underlying))
}

func TestConstructors(t *testing.T) {
	underlying := errors.New("boom")

	assert.Equal(t, MalformedInput, Malformed("x", underlying).Kind)
	assert.Equal(t, DanglingReference, Dangling("x", underlying).Kind)
	assert.Equal(t, Transient, TransientErr("x", underlying).Kind)
	assert.Equal(t, Invariant, InvariantViolation("x", underlying).Kind)
}

func TestAs(t *testing.T) {
	f := Malformed("bad log", errors.New("abi decode"))
	wrapped := fmt.Errorf("handling log: %w", f)

	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, MalformedInput, got.Kind)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, MalformedInput, KindOf(Malformed("x", nil)))
	assert.Equal(t, Transient, KindOf(errors.New("uncategorized")))
}

func TestIsSkippable(t *testing.T) {
	assert.True(t, IsSkippable(Malformed("x", nil)))
	assert.True(t, IsSkippable(Dangling("x", nil)))
	assert.True(t, IsSkippable(InvariantViolation("x", nil)))
	assert.False(t, IsSkippable(TransientErr("x", nil)))
	assert.False(t, IsSkippable(errors.New("uncategorized")))
}
