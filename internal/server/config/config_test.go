package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.EndpointAddrHTTP, ":8080")
	assert.Equal(t, c.DataFilePath, "data/shopfloor.json")
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.AccessTokenValidityDuration, 12*time.Hour)
	assert.Equal(t, c.ResetTokenValidityDuration, 15*time.Minute)
	assert.Equal(t, c.BcryptCost, bcrypt.DefaultCost)
	assert.Equal(t, c.LogFormat, "json")
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.EndpointAddrHTTP, ":8080")
	assert.Equal(t, c.DataFilePath, "data/shopfloor.json")
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.AccessTokenValidityDuration, 12*time.Hour)
	assert.Equal(t, c.ResetTokenValidityDuration, 15*time.Minute)
}
