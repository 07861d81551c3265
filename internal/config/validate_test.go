package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saulo-duarte/learnhub-lambda/internal/config"
)

type signup struct {
	Password     string `json:"password" validate:"required,min=8"`
	Confirmation string `json:"confirmation" validate:"required,eqfield=Password"`
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.Nil(t, config.Validate(signup{Password: "secret123", Confirmation: "secret123"}))
	})

	t.Run("FieldMessages", func(t *testing.T) {
		fields := config.Validate(signup{Password: "short", Confirmation: "other"})
		assert.Equal(t, "must be at least 8", fields["password"])
		assert.Equal(t, "must match password", fields["confirmation"])
	})
}
