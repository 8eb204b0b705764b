package shoplens_test

import (
	"errors"
	"testing"

	"github.com/shoplens/shoplens"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := shoplens.Errorf(shoplens.EUNSUPPORTED, "no platform matches %q", "example.com")

	assert.Equal(t, shoplens.EUNSUPPORTED, shoplens.ErrorCode(err))
	assert.Equal(t, "no platform matches \"example.com\"", shoplens.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, shoplens.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, shoplens.EINTERNAL, shoplens.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, shoplens.ErrorMessage(nil))
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 200},
		{"unsupported source", shoplens.Errorf(shoplens.EUNSUPPORTED, "x"), 400},
		{"invalid input", shoplens.Errorf(shoplens.EINVALID, "x"), 400},
		{"cache miss", shoplens.Errorf(shoplens.ENOTFOUND, "x"), 404},
		{"incomplete record", shoplens.Errorf(shoplens.EINCOMPLETE, "x"), 422},
		{"render failure", shoplens.Errorf(shoplens.ERENDER, "x"), 500},
		{"unclassified", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, shoplens.StatusCode(tt.err))
		})
	}
}
