package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	type input struct {
		Network  string `validate:"required"`
		Endpoint string `validate:"omitempty,url"`
	}

	t.Run("passes when all rules are satisfied", func(t *testing.T) {
		err := Validate(input{Network: "testnet", Endpoint: "http://localhost:8332"})

		assert.NoError(t, err)
	})

	t.Run("fails with sentinel when a required field is empty", func(t *testing.T) {
		err := Validate(input{})

		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "Network")
	})

	t.Run("reports each failing field", func(t *testing.T) {
		err := Validate(input{Endpoint: "not-a-url"})

		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "Network")
		assert.Contains(t, err.Error(), "Endpoint")
	})
}
