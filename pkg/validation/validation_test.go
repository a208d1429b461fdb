package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Topic    string `json:"topic" validate:"required"`
	Semester int    `json:"semester" validate:"oneof=1 2"`
}

func TestTranslateUsesJSONNames(t *testing.T) {
	err := Validator().Struct(payload{Semester: 3})
	require.Error(t, err)

	fields := Translate(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "topic is a required field", fields["topic"])
	assert.Contains(t, fields["semester"], "semester must be one of")
}

func TestTranslateIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Translate(errors.New("boom")))
	assert.Nil(t, Translate(nil))
}

func TestValidatorIsShared(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}
