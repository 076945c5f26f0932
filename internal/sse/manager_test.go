package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/logger"
)

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(logger.Discard().Logger)
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(func() {
		_ = m.Shutdown(context.Background())
		cancel()
	})
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChan:
		return e
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}

func finished(wsID string) Event {
	return NewAnalysisFinishedEvent(wsID, domain.WorkspaceAnalysis{
		Status:   domain.AnalysisDone,
		RunID:    "run-1",
		FileName: "q3.txt",
		Result: &domain.AnalysisResult{
			Misalignments: []domain.MisalignmentFinding{{Term: "Churn Rate"}},
		},
	})
}

func TestManager_FiltersByWorkspace(t *testing.T) {
	m := startManager(t)

	watching, err := m.Connect("ws-a")
	require.NoError(t, err)
	elsewhere, err := m.Connect("ws-b")
	require.NoError(t, err)
	everything, err := m.Connect("")
	require.NoError(t, err)
	assert.Equal(t, 3, m.ClientCount())

	m.Emit(finished("ws-a"))

	got := receive(t, watching)
	assert.Equal(t, EventAnalysisFinished, got.Type)
	data := got.Data.(AnalysisEventData)
	assert.Equal(t, "run-1", data.RunID)
	assert.Equal(t, 1, data.Findings)

	assert.Equal(t, EventAnalysisFinished, receive(t, everything).Type)

	select {
	case e := <-elsewhere.EventChan:
		t.Fatalf("unexpected %s for another workspace", e.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManager_Disconnect(t *testing.T) {
	m := startManager(t)

	c, err := m.Connect("ws-a")
	require.NoError(t, err)
	m.Disconnect(c.ID)
	m.Disconnect(c.ID)

	assert.Zero(t, m.ClientCount())
	_, open := <-c.Done
	assert.False(t, open)
}

func TestManager_ShutdownDrainsAndCloses(t *testing.T) {
	m := NewManager(logger.Discard().Logger)
	c, err := m.Connect("ws-a")
	require.NoError(t, err)

	// No broadcast loop: Shutdown alone must deliver what was queued.
	m.Emit(finished("ws-a"))
	require.NoError(t, m.Shutdown(context.Background()))

	got, ok := <-c.EventChan
	require.True(t, ok)
	assert.Equal(t, EventAnalysisFinished, got.Type)

	_, ok = <-c.EventChan
	assert.False(t, ok)
	assert.Zero(t, m.ClientCount())

	// Late events and a second shutdown are harmless.
	m.Emit(finished("ws-a"))
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestNewAnalysisStartedEvent(t *testing.T) {
	e := NewAnalysisStartedEvent("ws-a", domain.WorkspaceAnalysis{
		Status:   domain.AnalysisAnalyzing,
		RunID:    "run-2",
		FileName: "Unnamed Report",
	})

	assert.Equal(t, EventAnalysisStarted, e.Type)
	assert.Equal(t, "ws-a", e.WorkspaceID)
	assert.False(t, e.Timestamp.IsZero())

	data := e.Data.(AnalysisEventData)
	assert.Equal(t, domain.AnalysisAnalyzing, data.Status)
	assert.Zero(t, data.Findings)
}
