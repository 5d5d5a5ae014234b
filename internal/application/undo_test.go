package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-command/internal/application"
	"home-command/internal/domain"
)

func TestRestore_LightRoundTrip(t *testing.T) {
	gw := &fakeGateway{}
	exec := application.NewLightsExecutor(gw, testLogger())
	restorer := application.NewRestorer(gw, testLogger())
	dir := testDirectory()

	res := exec.Execute(context.Background(), application.LightsArgs{
		Action: "off", Room: "kitchen",
	}, dir, domain.NewModifiedSet())
	require.True(t, res.Success)

	restore := restorer.Restore(context.Background(), res.Snapshots)
	require.True(t, restore.Success)

	// The restore calls carry the exact pre-mutation levels.
	calls := gw.callsFor("SetLightLevel")
	restored := map[string]int{}
	for _, c := range calls[len(calls)-3:] {
		restored[c.ID] = c.Value.(int)
	}
	assert.Equal(t, map[string]int{"light-1": 10000, "light-2": 30000, "light-3": 0}, restored)
}

func TestRestore_ThermostatModeAndSetPoint(t *testing.T) {
	gw := &fakeGateway{}
	restorer := application.NewRestorer(gw, testLogger())

	mode := domain.ThermostatModeHeat
	heat := 68
	res := restorer.Restore(context.Background(), []domain.DeviceSnapshot{{
		ID:       "therm-1",
		Type:     domain.DeviceTypeThermostat,
		Previous: domain.PreviousState{Mode: &mode, HeatSetPoint: &heat},
	}})

	require.True(t, res.Success)

	modeCalls := gw.callsFor("SetThermostatMode")
	require.Len(t, modeCalls, 1)
	assert.Equal(t, "heat", modeCalls[0].Value)

	spCalls := gw.callsFor("SetThermostatSetPoints")
	require.Len(t, spCalls, 1)
	sp := spCalls[0].Value.(setPoints)
	require.NotNil(t, sp.Heat)
	assert.Equal(t, 68, *sp.Heat)
	assert.Nil(t, sp.Cool)
}

func TestRestore_MediaRoomFieldsIndependently(t *testing.T) {
	gw := &fakeGateway{}
	restorer := application.NewRestorer(gw, testLogger())

	on := true
	vol := 40
	muted := false
	res := restorer.Restore(context.Background(), []domain.DeviceSnapshot{{
		ID:   "media-den",
		Type: domain.DeviceTypeMediaRoom,
		Previous: domain.PreviousState{
			PoweredOn: &on, VolumePercent: &vol, Muted: &muted,
		},
	}})

	require.True(t, res.Success)
	assert.Len(t, gw.callsFor("SetMediaPower"), 1)
	assert.Len(t, gw.callsFor("SetMediaVolume"), 1)
	assert.Len(t, gw.callsFor("SetMediaMute"), 1)
}

func TestRestore_PartialSuccessTolerated(t *testing.T) {
	gw := &fakeGateway{failIDs: map[string]bool{"light-2": true}}
	restorer := application.NewRestorer(gw, testLogger())

	level1, level2 := 10000, 30000
	res := restorer.Restore(context.Background(), []domain.DeviceSnapshot{
		{ID: "light-1", Type: domain.DeviceTypeLight, Previous: domain.PreviousState{Level: &level1}},
		{ID: "light-2", Type: domain.DeviceTypeLight, Previous: domain.PreviousState{Level: &level2}},
	})

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "Restored 1 of 2 devices.", res.Message)
}

func TestRestore_ReplayIsIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	restorer := application.NewRestorer(gw, testLogger())

	level := 20000
	snaps := []domain.DeviceSnapshot{
		{ID: "light-1", Type: domain.DeviceTypeLight, Previous: domain.PreviousState{Level: &level}},
	}

	restorer.Restore(context.Background(), snaps)
	restorer.Restore(context.Background(), snaps)

	calls := gw.callsFor("SetLightLevel")
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
}
