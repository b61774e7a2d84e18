package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CliConfig is loaded by multiconfig from flags and environment.
type CliConfig struct {
	DevicesFile    string `default:"/etc/wifi6bridge/devices.json"`
	MQTTAddress    string `default:":1883"`
	MetricsAddress string `default:":2112"`

	// PollInterval is the default status poll interval in seconds,
	// overridable per device in the devices file.
	PollInterval int `default:"60"`

	// TLSSkipVerify accepts the self signed certificates the devices
	// present when they are switched to https.
	TLSSkipVerify bool

	LogLevel string `default:"info"`
}

// Device is one thermostat entry in the devices file.
type Device struct {
	Name         string `json:"name"`
	Host         string `json:"host"`
	PollInterval int    `json:"pollInterval,omitempty"`
}

func (d Device) Interval(fallback int) time.Duration {
	seconds := d.PollInterval
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

// LoadDevices reads the JSON devices file.
func LoadDevices(path string) ([]Device, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading devices file: %w", err)
	}
	var devices []Device
	if err := json.Unmarshal(b, &devices); err != nil {
		return nil, fmt.Errorf("error decoding devices file %s: %w", path, err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("devices file %s lists no devices", path)
	}
	for i, d := range devices {
		if d.Host == "" {
			return nil, fmt.Errorf("device %d in %s has no host", i, path)
		}
		if d.Name == "" {
			devices[i].Name = d.Host
		}
	}
	return devices, nil
}
