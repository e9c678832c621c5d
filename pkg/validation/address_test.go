package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	require.NoError(t, ValidateAddress("DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump"))
	require.NoError(t, ValidateAddress("11111111111111111111111111111111"))

	require.Error(t, ValidateAddress(""))
	require.Error(t, ValidateAddress("not-base58-0OIl"))
	require.Error(t, ValidateAddress("abc"))
}

func TestValidateSignature(t *testing.T) {
	require.NoError(t, ValidateSignature("5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"))

	require.Error(t, ValidateSignature(""))
	// A public key is too short to be a signature.
	require.Error(t, ValidateSignature("DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump"))
}

func TestValidateID(t *testing.T) {
	require.NoError(t, ValidateID(uuid.NewString()))

	require.Error(t, ValidateID(""))
	require.Error(t, ValidateID("not-a-uuid"))
}

func TestShortAddress(t *testing.T) {
	require.Equal(t, "DSL6...pump", ShortAddress("DSL6XbjPfhXjD9YYhzxo5Dv2VRt7VSeXRkTefEu5pump"))
	require.Equal(t, "short", ShortAddress("short"))
}
