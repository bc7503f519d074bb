package services_test

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"h3dstudio/internal/h3d"
	"h3dstudio/internal/services"
)

func TestCredentialsService_RoundTrip(t *testing.T) {
	svc := services.NewCredentialsService(keyring.NewArrayKeyring(nil))

	assert.False(t, svc.HasSession())
	_, err := svc.Load()
	assert.ErrorIs(t, err, h3d.ErrNoSession)

	require.NoError(t, svc.Store(" tok ", "u-1"))
	assert.True(t, svc.HasSession())

	creds, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, &h3d.Credentials{Token: "tok", UserID: "u-1"}, creds)

	require.NoError(t, svc.Delete())
	assert.False(t, svc.HasSession())
	assert.NoError(t, svc.Delete())
}

func TestCredentialsService_Validation(t *testing.T) {
	svc := services.NewCredentialsService(keyring.NewArrayKeyring(nil))
	assert.EqualError(t, svc.Store("  ", "u-1"), "token is required")
}

func TestCredentialsService_CorruptItem(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "session", Data: []byte("{")}})
	_, err := services.NewCredentialsService(ring).Load()
	assert.ErrorContains(t, err, "decode stored session")
}

func TestCredentialsService_IsACredentialsSource(t *testing.T) {
	var _ h3d.CredentialsSource = services.NewCredentialsService(keyring.NewArrayKeyring(nil))
}
