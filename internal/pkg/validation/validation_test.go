package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `validate:"required"`
	Count int    `validate:"gt=0"`
}

func TestStructAndFieldMessages(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "x", Count: 1}))

	msgs := FieldMessages(Struct(sample{}))
	assert.Equal(t, "Name is required", msgs["Name"])
	assert.Equal(t, "Count must be greater than 0", msgs["Count"])
}

func TestFieldMessagesPlainError(t *testing.T) {
	assert.Nil(t, FieldMessages(nil))
	assert.Equal(t, map[string]string{"_": "boom"}, FieldMessages(errors.New("boom")))
}
