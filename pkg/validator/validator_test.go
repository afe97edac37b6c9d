package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Code string    `validate:"required,max=5"`
	Ref  uuid.UUID `validate:"uuid_required"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(&sample{Code: "OK", Ref: uuid.New()})
	assert.Empty(t, errs)

	errs = ValidateStruct(&sample{Code: "TOOLONGCODE", Ref: uuid.New()})
	require.Len(t, errs, 1)
	assert.Equal(t, "max", errs[0].Tag)

	// The zero UUID is not a usable reference.
	errs = ValidateStruct(&sample{Code: "OK"})
	require.Len(t, errs, 1)
	assert.Equal(t, "uuid_required", errs[0].Tag)
}
