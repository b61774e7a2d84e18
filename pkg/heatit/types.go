package heatit

// API paths exposed by the WiFi6 firmware.
const (
	PathStatus     = "/api/status"
	PathParameters = "/api/parameters"
	PathReset      = "/api/reset"
)

// Parameter names accepted by the parameters endpoint.
const (
	ParamHeatingSetpoint = "heatingSetpoint"
	ParamCoolingSetpoint = "coolingSetpoint"
	ParamEcoSetpoint     = "ecoSetpoint"
	ParamOperatingMode   = "operatingMode"
)

// UnknownDeviceID is reported when the device id cannot be probed.
const UnknownDeviceID = "unknown"

// Regulation states reported in the status state field.
const (
	StateIdle    = "Idle"
	StateHeating = "Heating"
	StateCooling = "Cooling"
)

// ResetType selects what a device reset clears.
type ResetType string

const (
	ResetFactory  ResetType = "factory"
	ResetSettings ResetType = "settings"
	ResetKWH      ResetType = "kwh"
)

func (r ResetType) Valid() bool {
	switch r {
	case ResetFactory, ResetSettings, ResetKWH:
		return true
	}
	return false
}

// Status is the wholesale device snapshot returned by the status
// endpoint. Fields the firmware may omit are pointers.
type Status struct {
	ID                  string      `json:"id,omitempty"`
	State               string      `json:"state,omitempty"`
	Firmware            string      `json:"firmware,omitempty"`
	CurrentPower        *float64    `json:"currentPower,omitempty"`
	TotalConsumption    *float64    `json:"totalConsumption,omitempty"`
	InternalTemperature *float64    `json:"internalTemperature,omitempty"`
	ExternalTemperature *float64    `json:"externalTemperature,omitempty"`
	FloorTemperature    *float64    `json:"floorTemperature,omitempty"`
	Parameters          *Parameters `json:"parameters,omitempty"`
	Network             *Network    `json:"network,omitempty"`
}

type Parameters struct {
	SensorMode                      *int     `json:"sensorMode,omitempty"`
	SensorValue                     *int     `json:"sensorValue,omitempty"`
	HeatingSetpoint                 *float64 `json:"heatingSetpoint,omitempty"`
	CoolingSetpoint                 *float64 `json:"coolingSetpoint,omitempty"`
	EcoSetpoint                     *float64 `json:"ecoSetpoint,omitempty"`
	InternalMinimumTemperatureLimit *float64 `json:"internalMinimumTemperatureLimit,omitempty"`
	InternalMaximumTemperatureLimit *float64 `json:"internalMaximumTemperatureLimit,omitempty"`
	FloorMinimumTemperatureLimit    *float64 `json:"floorMinimumTemperatureLimit,omitempty"`
	FloorMaximumTemperatureLimit    *float64 `json:"floorMaximumTemperatureLimit,omitempty"`
	ExternalMinimumTemperatureLimit *float64 `json:"externalMinimumTemperatureLimit,omitempty"`
	ExternalMaximumTemperatureLimit *float64 `json:"externalMaximumTemperatureLimit,omitempty"`
	InternalCalibration             *float64 `json:"internalCalibration,omitempty"`
	FloorCalibration                *float64 `json:"floorCalibration,omitempty"`
	ExternalCalibration             *float64 `json:"externalCalibration,omitempty"`
	RegulationMode                  *int     `json:"regulationMode,omitempty"`
	TemperatureControlHysteresis    *float64 `json:"temperatureControlHysteresis,omitempty"`
	TemperatureDisplay              *int     `json:"temperatureDisplay,omitempty"`
	ActiveDisplayBrightness         *int     `json:"activeDisplayBrightness,omitempty"`
	StandbyDisplayBrightness        *int     `json:"standbyDisplayBrightness,omitempty"`
	ActionAfterError                *int     `json:"actionAfterError,omitempty"`
	PowerRegulatorActiveTime        *int     `json:"powerRegulatorActiveTime,omitempty"`
	OperatingMode                   *int     `json:"operatingMode,omitempty"`
	SizeOfLoad                      *float64 `json:"sizeOfLoad,omitempty"`
	DisableButtons                  *bool    `json:"disableButtons,omitempty"`
	OWD                             *OWD     `json:"OWD,omitempty"`
}

// OWD is the open window detection block.
type OWD struct {
	OpenWindowDetection *bool `json:"openWindowDetection,omitempty"`
	ActiveNow           *bool `json:"activeNow,omitempty"`
}

type Network struct {
	SSID               string `json:"SSID,omitempty"`
	Mac                string `json:"mac,omitempty"`
	IPAddress          string `json:"ipAddress,omitempty"`
	WifiSignalStrength *int   `json:"wifiSignalStrength,omitempty"`
	Status             string `json:"status,omitempty"`
}
