package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("relation does not exist")

	assert.Equal(t, "[query_failed] fk scan: relation does not exist",
		Wrap(ErrKindQueryFailed, "fk scan", cause).Error())
	assert.Equal(t, "[decode_failed] bad row", New(ErrKindDecodeFailed, "bad row").Error())
}

func TestKindOf_FollowsChain(t *testing.T) {
	inner := Wrap(ErrKindTimeout, "table scan", errors.New("deadline"))
	outer := fmt.Errorf("introspect: %w", inner)

	assert.Equal(t, ErrKindTimeout, KindOf(outer))
	assert.True(t, IsTimeout(outer))
	assert.False(t, IsNotFound(outer))
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, ErrKindUnknown, KindOf(nil))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		kind ErrKind
		is   func(error) bool
		name string
	}{
		{ErrKindNotFound, IsNotFound, "not_found"},
		{ErrKindConnectionFailed, IsConnectionFailed, "connection_failed"},
		{ErrKindTimeout, IsTimeout, "timeout"},
		{ErrKindQueryFailed, IsQueryFailed, "query_failed"},
		{ErrKindInvalidInput, IsInvalidInput, "invalid_input"},
		{ErrKindPermissionDenied, IsPermissionDenied, "permission_denied"},
		{ErrKindDecodeFailed, IsDecodeFailed, "decode_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.kind.String())
			assert.True(t, tt.is(New(tt.kind, "x")))
			assert.False(t, tt.is(New(ErrKindUnknown, "x")))
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root")
	assert.ErrorIs(t, Wrap(ErrKindQueryFailed, "x", cause), cause)
}
