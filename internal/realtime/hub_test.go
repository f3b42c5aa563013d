package realtime

import (
	"testing"
	"time"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	clientA := hub.NewSSEClient("staff-a")
	hub.AddChannel(clientA, ChannelSafeguarding)

	hub.Broadcast(SSEMessage{Channel: ChannelSafeguarding, Event: SSEEventSafeguardingAlert, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: ChannelSafeguarding, Event: SSEEventEmergencyAlert, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventSafeguardingAlert {
		t.Fatalf("first event: want=%s got=%s", SSEEventSafeguardingAlert, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventEmergencyAlert {
		t.Fatalf("second event: want=%s got=%s", SSEEventEmergencyAlert, got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(ChannelSafeguarding); n != 0 {
		t.Fatalf("subscribers after close=%d, want 0", n)
	}

	clientB := hub.NewSSEClient("staff-b")
	hub.AddChannel(clientB, ChannelSafeguarding)
	hub.Broadcast(SSEMessage{Channel: ChannelSafeguarding, Event: SSEEventFlagReviewed})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventFlagReviewed {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventFlagReviewed, got.Event)
	}
}

func TestBroadcastIgnoresOtherChannels(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	c := hub.NewSSEClient("staff-a")
	hub.AddChannel(c, ChannelSafeguarding)
	hub.Broadcast(SSEMessage{Channel: "other", Event: SSEEventSafeguardingAlert})
	select {
	case msg := <-c.Outbound:
		t.Fatalf("unexpected message %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
