package wifi

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifiman-project/wifiman-go/pkg/credentials"
	"github.com/wifiman-project/wifiman-go/pkg/radio"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(Config{
		Driver:       simulatedDriver(),
		Store:        credentials.NewFileStore(filepath.Join(t.TempDir(), "creds.json")),
		AccessPoint:  &radio.AccessPointConfig{SSID: "setup-ap"},
		PollInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	return svc
}

func TestNewRequiresDriverAndStore(t *testing.T) {
	_, err := New(Config{Store: credentials.NewFileStore("x")})
	require.Error(t, err)

	_, err = New(Config{Driver: simulatedDriver()})
	require.Error(t, err)
}

func TestServiceConnectLifecycle(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.SetMode(radio.ModeClient))
	require.NoError(t, svc.ConnectSyncWith(context.Background(),
		credentials.Credentials{SSID: "HomeNet", Passphrase: "password123"}, time.Second))

	st := svc.Status()
	assert.True(t, st.Connected)
	assert.Equal(t, homeNet.Address, st.Address)

	networks, err := svc.Scan()
	require.NoError(t, err)
	require.Len(t, networks, 1)
	assert.True(t, networks[0].Connected)
}

func TestServiceProvisioningLifecycle(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.StartLocalAPProvisioning(LocalAPOptions{
		AccessPoint: radio.AccessPointConfig{SSID: "device-setup"},
	}))
	assert.Equal(t, SessionListening, svc.ProvisioningState())
	assert.True(t, svc.Status().ProvisioningActive)

	require.NoError(t, svc.SubmitProvisioningCredentials(credentials.Credentials{
		SSID:       "HomeNet",
		Passphrase: "password123",
	}))
	require.NoError(t, svc.WaitForProvisioning(context.Background(), time.Second))

	saved, err := svc.LoadCredentials()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "HomeNet", saved.SSID)
	assert.False(t, svc.Status().ProvisioningActive)
}

func TestServiceCancelProvisioning(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.StartBroadcastProvisioning(BroadcastOptions{}))
	require.NoError(t, svc.CancelProvisioning())
	assert.Equal(t, SessionIdle, svc.ProvisioningState())
}
