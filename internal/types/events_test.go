package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLogEvent_DomainAndLabel(t *testing.T) {
	ev := &LogEvent{
		Level: "ERROR", Message: "failed login", Source: "Auth Logs",
		Details: "User authentication failure", Timestamp: time.Now(),
	}
	if ev.Domain() != DomainLog {
		t.Errorf("Domain() = %q", ev.Domain())
	}
	if ev.SourceLabel() != "Auth Logs" {
		t.Errorf("SourceLabel() = %q", ev.SourceLabel())
	}
}

func TestNetworkEvent_DomainAndLabel(t *testing.T) {
	ev := &NetworkEvent{Kind: NetworkConnection, Source: "192.168.1.45"}
	if ev.Domain() != DomainNetwork {
		t.Errorf("Domain() = %q", ev.Domain())
	}
	if ev.SourceLabel() != "connection" {
		t.Errorf("SourceLabel() = %q", ev.SourceLabel())
	}
}

func TestNetworkEvent_JSONKindField(t *testing.T) {
	raw := `{"type":"traffic","source":"192.168.1.10","destination":"45.63.82.91","port":4444,"protocol":"TCP","details":"Suspicious outbound connection"}`
	var ev NetworkEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal network event: %v", err)
	}
	if ev.Kind != NetworkTraffic {
		t.Errorf("Kind = %q", ev.Kind)
	}
	if ev.Port != 4444 {
		t.Errorf("Port = %d", ev.Port)
	}

	out, err := json.Marshal(&ev)
	if err != nil {
		t.Fatalf("marshal network event: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if decoded["type"] != "traffic" {
		t.Errorf(`kind should serialize under "type", got %v`, decoded["type"])
	}
	if _, present := decoded["ports"]; present {
		t.Error("empty port set should be omitted")
	}
}
