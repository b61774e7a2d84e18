package mqtt

import (
	"fmt"

	"github.com/heatit-community/wifi6bridge/pkg/climate"
)

const (
	topicPrefix     = "heatit"
	discoveryPrefix = "homeassistant"
)

func StateTopic(id string) string {
	return fmt.Sprintf("%s/%s/state", topicPrefix, id)
}

func AvailabilityTopic(id string) string {
	return fmt.Sprintf("%s/%s/available", topicPrefix, id)
}

func CommandTopic(id, command string) string {
	return fmt.Sprintf("%s/%s/set/%s", topicPrefix, id, command)
}

func DiscoveryTopic(id string) string {
	return fmt.Sprintf("%s/climate/%s/config", discoveryPrefix, id)
}

// DiscoveryDevice groups the bridge's entities per physical device in
// Home Assistant.
type DiscoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
}

// ClimateDiscovery is the Home Assistant MQTT climate discovery
// payload.
type ClimateDiscovery struct {
	Name                       string          `json:"name"`
	UniqueID                   string          `json:"unique_id"`
	Modes                      []string        `json:"modes"`
	PresetModes                []string        `json:"preset_modes"`
	AvailabilityTopic          string          `json:"availability_topic"`
	CurrentTemperatureTopic    string          `json:"current_temperature_topic"`
	CurrentTemperatureTemplate string          `json:"current_temperature_template"`
	TemperatureCommandTopic    string          `json:"temperature_command_topic"`
	TemperatureStateTopic      string          `json:"temperature_state_topic"`
	TemperatureStateTemplate   string          `json:"temperature_state_template"`
	ModeCommandTopic           string          `json:"mode_command_topic"`
	ModeStateTopic             string          `json:"mode_state_topic"`
	ModeStateTemplate          string          `json:"mode_state_template"`
	PresetModeCommandTopic     string          `json:"preset_mode_command_topic"`
	PresetModeStateTopic       string          `json:"preset_mode_state_topic"`
	PresetModeValueTemplate    string          `json:"preset_mode_value_template"`
	ActionTopic                string          `json:"action_topic"`
	ActionTemplate             string          `json:"action_template"`
	TempStep                   float64         `json:"temp_step"`
	Device                     DiscoveryDevice `json:"device"`
}

// NewClimateDiscovery builds the discovery payload. deviceID is the
// probed device id, falling back to the bridge's device name when the
// probe failed, so the entity identity follows the hardware. The
// selectable modes depend on whether this is a heating or a cooling
// install.
func NewClimateDiscovery(id, name, deviceID string, mode climate.Mode) ClimateDiscovery {
	state := StateTopic(id)
	uniqueID := "heatit_wifi6_" + deviceID
	modes := []string{}
	for _, m := range climate.Modes(mode) {
		modes = append(modes, string(m))
	}
	presets := []string{}
	for _, p := range climate.Presets() {
		presets = append(presets, string(p))
	}
	return ClimateDiscovery{
		Name:                       name,
		UniqueID:                   uniqueID,
		Modes:                      modes,
		PresetModes:                presets,
		AvailabilityTopic:          AvailabilityTopic(id),
		CurrentTemperatureTopic:    state,
		CurrentTemperatureTemplate: "{{ value_json.currentTemperature }}",
		TemperatureCommandTopic:    CommandTopic(id, "temperature"),
		TemperatureStateTopic:      state,
		TemperatureStateTemplate:   "{{ value_json.targetTemperature }}",
		ModeCommandTopic:           CommandTopic(id, "mode"),
		ModeStateTopic:             state,
		ModeStateTemplate:          "{{ value_json.mode }}",
		PresetModeCommandTopic:     CommandTopic(id, "preset"),
		PresetModeStateTopic:       state,
		PresetModeValueTemplate:    "{{ value_json.preset }}",
		ActionTopic:                state,
		ActionTemplate:             "{{ value_json.action }}",
		TempStep:                   0.5,
		Device: DiscoveryDevice{
			Identifiers:  []string{uniqueID},
			Name:         name,
			Manufacturer: "Heatit",
			Model:        "WiFi6",
		},
	}
}
