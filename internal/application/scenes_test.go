package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-command/internal/application"
	"home-command/internal/domain"
)

func TestScene_RecallSnapshotsAllLights(t *testing.T) {
	gw := &fakeGateway{}
	exec := application.NewSceneExecutor(gw, testLogger())
	dir := testDirectory()

	res := exec.Execute(context.Background(), application.SceneArgs{SceneName: "movie night"}, dir)

	require.True(t, res.Success)
	calls := gw.callsFor("RecallScene")
	require.Len(t, calls, 1)
	assert.Equal(t, "scene-1", calls[0].ID)

	// The whole light population is snapshotted, not just scene members.
	require.Len(t, res.Snapshots, len(dir.Lights))
	for _, s := range res.Snapshots {
		assert.Equal(t, domain.DeviceTypeLight, s.Type)
		assert.NotNil(t, s.Previous.Level)
	}
}

func TestScene_NotFoundNamesScene(t *testing.T) {
	gw := &fakeGateway{}
	exec := application.NewSceneExecutor(gw, testLogger())
	dir := testDirectory()

	res := exec.Execute(context.Background(), application.SceneArgs{SceneName: "disco"}, dir)

	assert.False(t, res.Success)
	assert.True(t, res.NoMatch)
	assert.Contains(t, res.Message, "disco")
	assert.Empty(t, gw.calls)
}

func TestScene_RecallFailureMirrorsGateway(t *testing.T) {
	gw := &fakeGateway{failIDs: map[string]bool{"scene-1": true}}
	exec := application.NewSceneExecutor(gw, testLogger())
	dir := testDirectory()

	res := exec.Execute(context.Background(), application.SceneArgs{SceneName: "movie"}, dir)

	assert.False(t, res.Success)
	// Snapshots are still returned so the client can undo a half-applied scene.
	assert.Len(t, res.Snapshots, len(dir.Lights))
}
