package mqtt

import "testing"

func TestTopics(t *testing.T) {
	topics := NewTopics("/greenhouse/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServiceStatus", topics.ServiceStatus(), "greenhouse/v1/service/status"},
		{"SystemEvents", topics.SystemEvents(7), "greenhouse/v1/systems/7/events"},
		{"SystemReadings", topics.SystemReadings(7), "greenhouse/v1/systems/7/readings"},
		{"AllReadings", topics.AllReadings(), "greenhouse/v1/systems/+/readings"},
		{"AllEvents", topics.AllEvents(), "greenhouse/v1/systems/+/events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
