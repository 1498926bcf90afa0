package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
		{name: "not found", err: NotFound("course not found"), want: KindNotFound},
		{name: "wrapped conflict", err: fmt.Errorf("create: %w", Conflict("duplicate")), want: KindConflict},
		{name: "upstream", err: Upstream("gateway down", errors.New("timeout")), want: KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Internal("failed to save payment", errors.New("connection reset"))
	assert.Equal(t, "failed to save payment: connection reset", err.Error())
	assert.True(t, errors.Is(err, err.Err))

	plain := Validation("coupon expired")
	assert.Equal(t, "coupon expired", plain.Error())
	assert.Equal(t, "VALIDATION_FAILED", plain.Kind.String())
}

func TestIs(t *testing.T) {
	assert.False(t, Is(nil, KindNotFound))
	assert.True(t, Is(Forbidden("nope"), KindForbidden))
	assert.False(t, Is(Forbidden("nope"), KindNotFound))
}
