package mqtt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heatit-community/wifi6bridge/pkg/climate"
	"github.com/heatit-community/wifi6bridge/pkg/heatit"
)

func TestTopics(t *testing.T) {
	assert.Equal(t, "heatit/office/state", StateTopic("office"))
	assert.Equal(t, "heatit/office/available", AvailabilityTopic("office"))
	assert.Equal(t, "heatit/office/set/temperature", CommandTopic("office", "temperature"))
	assert.Equal(t, "homeassistant/climate/office/config", DiscoveryTopic("office"))
}

func TestNewClimateDiscovery(t *testing.T) {
	d := NewClimateDiscovery("office", "Office floor", "abc123", climate.ModeHeat)
	assert.Equal(t, "Office floor", d.Name)
	assert.Equal(t, "heatit_wifi6_abc123", d.UniqueID)
	assert.Equal(t, []string{"off", "heat"}, d.Modes)
	assert.Equal(t, []string{"none", "eco"}, d.PresetModes)
	assert.Equal(t, "heatit/office/available", d.AvailabilityTopic)
	assert.Equal(t, "heatit/office/set/mode", d.ModeCommandTopic)
	assert.Equal(t, "heatit/office/state", d.ModeStateTopic)
	assert.Equal(t, []string{"heatit_wifi6_abc123"}, d.Device.Identifiers)
}

func TestNewClimateDiscoveryCoolingInstall(t *testing.T) {
	d := NewClimateDiscovery("cellar", "Cellar", "def456", climate.ModeCool)
	assert.Equal(t, []string{"off", "cool"}, d.Modes)
	assert.Equal(t, "heatit_wifi6_def456", d.UniqueID)
}

type recordedCommand struct {
	command string
	value   any
}

type fakeHandler struct {
	commands []recordedCommand
}

func (f *fakeHandler) SetTemperature(ctx context.Context, temperature float64) error {
	f.commands = append(f.commands, recordedCommand{command: "temperature", value: temperature})
	return nil
}

func (f *fakeHandler) SetMode(ctx context.Context, mode climate.Mode) error {
	f.commands = append(f.commands, recordedCommand{command: "mode", value: mode})
	return nil
}

func (f *fakeHandler) SetPreset(ctx context.Context, preset climate.Preset) error {
	f.commands = append(f.commands, recordedCommand{command: "preset", value: preset})
	return nil
}

func (f *fakeHandler) Reset(ctx context.Context, resetType heatit.ResetType) error {
	f.commands = append(f.commands, recordedCommand{command: "reset", value: resetType})
	return nil
}

func TestHandleCommand(t *testing.T) {
	var tests = []struct {
		name    string
		topic   string
		payload string
		want    []recordedCommand
	}{
		{
			name:    "temperature",
			topic:   "heatit/office/set/temperature",
			payload: "21.5",
			want:    []recordedCommand{{command: "temperature", value: 21.5}},
		},
		{
			name:    "temperature with whitespace",
			topic:   "heatit/office/set/temperature",
			payload: " 19 \n",
			want:    []recordedCommand{{command: "temperature", value: 19.0}},
		},
		{
			name:    "bad temperature is dropped",
			topic:   "heatit/office/set/temperature",
			payload: "warm",
			want:    nil,
		},
		{
			name:    "mode",
			topic:   "heatit/office/set/mode",
			payload: "heat",
			want:    []recordedCommand{{command: "mode", value: climate.ModeHeat}},
		},
		{
			name:    "preset",
			topic:   "heatit/office/set/preset",
			payload: "eco",
			want:    []recordedCommand{{command: "preset", value: climate.PresetEco}},
		},
		{
			name:    "reset",
			topic:   "heatit/office/set/reset",
			payload: "kwh",
			want:    []recordedCommand{{command: "reset", value: heatit.ResetKWH}},
		},
		{
			name:    "unknown command is dropped",
			topic:   "heatit/office/set/color",
			payload: "blue",
			want:    nil,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := &fakeHandler{}
			handleCommand(handler, tt.topic, []byte(tt.payload))
			assert.Equal(t, tt.want, handler.commands)
		})
	}
}
