package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobeval/internal/evaluation/ports"
)

func TestStaticValidatorDefaults(t *testing.T) {
	v := NewStaticValidator("Azerbaijan")

	assert.Equal(t, "Azerbaijan", v.CountryDataProvider().CountryData().Country())
	assert.True(t, v.CheckConnectionToRemoteServer(context.Background()))
	assert.Equal(t, ports.ValidationModeNone, v.ValidationMode())
	assert.False(t, v.IsValid(context.Background(), "AZE1"))
}

func TestStaticValidatorAnswers(t *testing.T) {
	ctx := context.Background()
	v := NewStaticValidator("Georgia",
		WithValidIdentities("AZE1", " AZE2 "),
		WithReachable(false),
		WithMode(ports.ValidationModeQuick),
	)

	assert.True(t, v.IsValid(ctx, "AZE1"))
	assert.True(t, v.IsValid(ctx, "AZE2"))
	assert.False(t, v.IsValid(ctx, "AZE3"))
	assert.False(t, v.IsValid(ctx, ""))
	assert.False(t, v.CheckConnectionToRemoteServer(ctx))
	assert.Equal(t, ports.ValidationModeQuick, v.ValidationMode())
	assert.Equal(t, []string{"AZE1", "AZE2", "AZE3", ""}, v.Calls())

	v.SetValidationMode(ports.ValidationModeDetailed)
	assert.Equal(t, ports.ValidationModeDetailed, v.ValidationMode())
}

func TestStaticValidatorDefaultValidity(t *testing.T) {
	v := NewStaticValidator("Azerbaijan", WithDefaultValidity(true))
	assert.True(t, v.IsValid(context.Background(), "anything"))
	assert.False(t, v.IsValid(context.Background(), "   "))
}

func TestCountry(t *testing.T) {
	c := Country("Azerbaijan")
	assert.Equal(t, "Azerbaijan", c.CountryData().Country())
}
