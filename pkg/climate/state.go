package climate

type State struct {
	Mode      Mode   `json:"mode"`
	Action    Action `json:"action,omitempty"`
	Preset    Preset `json:"preset"`
	Available bool   `json:"available"`

	CurrentTemperature  *float64 `json:"currentTemperature,omitempty"`
	TargetTemperature   *float64 `json:"targetTemperature,omitempty"`
	InternalTemperature *float64 `json:"internalTemperature,omitempty"`
	ExternalTemperature *float64 `json:"externalTemperature,omitempty"`
	FloorTemperature    *float64 `json:"floorTemperature,omitempty"`

	CurrentPower     *float64 `json:"currentPower,omitempty"`
	TotalConsumption *float64 `json:"totalConsumption,omitempty"`

	OpenWindowActive   *bool  `json:"openWindowActive,omitempty"`
	WifiSignalStrength *int   `json:"wifiSignalStrength,omitempty"`
	Firmware           string `json:"firmware,omitempty"`
}

func (s State) Map() map[string]interface{} {
	m := make(map[string]interface{})
	m["mode"] = string(s.Mode)
	m["preset"] = string(s.Preset)
	m["available"] = s.Available
	if s.Action != "" {
		m["action"] = string(s.Action)
	}
	if s.CurrentTemperature != nil {
		m["currentTemperature"] = *s.CurrentTemperature
	}
	if s.TargetTemperature != nil {
		m["targetTemperature"] = *s.TargetTemperature
	}
	if s.InternalTemperature != nil {
		m["internalTemperature"] = *s.InternalTemperature
	}
	if s.ExternalTemperature != nil {
		m["externalTemperature"] = *s.ExternalTemperature
	}
	if s.FloorTemperature != nil {
		m["floorTemperature"] = *s.FloorTemperature
	}
	if s.CurrentPower != nil {
		m["currentPower"] = *s.CurrentPower
	}
	if s.TotalConsumption != nil {
		m["totalConsumption"] = *s.TotalConsumption
	}
	if s.OpenWindowActive != nil {
		m["openWindowActive"] = boolToInt(*s.OpenWindowActive)
	}
	if s.WifiSignalStrength != nil {
		m["wifiSignalStrength"] = *s.WifiSignalStrength
	}
	if s.Firmware != "" {
		m["firmware"] = s.Firmware
	}
	return m
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
