package pwtracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartDecide_ReturnsUsableSpan(t *testing.T) {
	ctx, span := StartDecide(context.Background(), `C:\Game\Saves`)
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
	End(span, nil)
}

func TestEnd_RecordsError(t *testing.T) {
	_, span := StartEnumeration(context.Background(), `C:\Game\Saves`)
	assert.NotPanics(t, func() { End(span, errors.New("boom")) })
}
