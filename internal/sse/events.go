// Package sse streams workspace events to browsers as Server-Sent Events.
package sse

import (
	"time"

	"github.com/termalign/termalign-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventAnalysisStarted is sent when a workspace analysis run is scheduled.
	EventAnalysisStarted EventType = "workspace.analysis.started"
	// EventAnalysisFinished is sent when the current run of a workspace
	// completes or fails. Superseded runs send nothing.
	EventAnalysisFinished EventType = "workspace.analysis.finished"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// WorkspaceID limits delivery to clients watching that workspace.
	// Empty means every client.
	WorkspaceID string `json:"-"`
}

// AnalysisEventData is the payload of workspace analysis events.
type AnalysisEventData struct {
	WorkspaceID string                `json:"workspaceId"`
	RunID       string                `json:"runId"`
	Status      domain.AnalysisStatus `json:"status"`
	FileName    string                `json:"fileName"`
	Findings    int                   `json:"findings"`
	Error       string                `json:"error,omitempty"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"serverTime"`
}

// NewAnalysisStartedEvent creates an event for a freshly scheduled run.
func NewAnalysisStartedEvent(wsID string, a domain.WorkspaceAnalysis) Event {
	return newAnalysisEvent(EventAnalysisStarted, wsID, a)
}

// NewAnalysisFinishedEvent creates an event for a run that reached done or failed.
func NewAnalysisFinishedEvent(wsID string, a domain.WorkspaceAnalysis) Event {
	return newAnalysisEvent(EventAnalysisFinished, wsID, a)
}

func newAnalysisEvent(t EventType, wsID string, a domain.WorkspaceAnalysis) Event {
	data := AnalysisEventData{
		WorkspaceID: wsID,
		RunID:       a.RunID,
		Status:      a.Status,
		FileName:    a.FileName,
		Error:       a.Error,
	}
	if a.Result != nil {
		data.Findings = len(a.Result.Misalignments)
	}

	return Event{
		Type:        t,
		Data:        data,
		Timestamp:   time.Now(),
		WorkspaceID: wsID,
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
