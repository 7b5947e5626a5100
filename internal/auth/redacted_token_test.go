package auth

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactedToken(t *testing.T) {
	token := NewRedactedToken("super-secret-token-12345")

	assert.Equal(t, "super-secret-token-12345", token.Value())
	assert.Equal(t, "[REDACTED]", token.String())
	assert.Equal(t, "auth.RedactedToken{[REDACTED]}", token.GoString())
	assert.Equal(t, "Token: [REDACTED]", fmt.Sprintf("Token: %s", token))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", token))
	assert.False(t, token.IsEmpty())
	assert.True(t, NewRedactedToken("").IsEmpty())
}

func TestRedactedToken_JSON(t *testing.T) {
	at := AccessToken{Value: NewRedactedToken("secret"), Type: "Bearer", Resource: "api://todo"}

	data, err := json.Marshal(at)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"Value":"[REDACTED]"`)
	assert.Equal(t, "Bearer secret", at.AuthorizationHeader())
}
