// Package climate holds the generic climate-control vocabulary the
// bridge exposes to the automation host, and the mapping to and from
// the Heatit operating mode integers.
package climate

// Mode is the generic HVAC mode shown to the host.
type Mode string

const (
	ModeOff  Mode = "off"
	ModeHeat Mode = "heat"
	ModeCool Mode = "cool"
)

// Action is what the device is currently doing.
type Action string

const (
	ActionOff     Action = "off"
	ActionIdle    Action = "idle"
	ActionHeating Action = "heating"
	ActionCooling Action = "cooling"
)

type Preset string

const (
	PresetNone Preset = "none"
	PresetEco  Preset = "eco"
)

// OperatingMode is the device's own mode code. Eco is not a mode of its
// own on the host side: it maps to heat with the eco preset and the eco
// setpoint.
type OperatingMode int

const (
	OperatingModeOff  OperatingMode = 0
	OperatingModeHeat OperatingMode = 1
	OperatingModeCool OperatingMode = 2
	OperatingModeEco  OperatingMode = 3
)

// Mode maps the device operating mode to the generic HVAC mode. ok is
// false for codes the device family does not define.
func (o OperatingMode) Mode() (Mode, bool) {
	switch o {
	case OperatingModeOff:
		return ModeOff, true
	case OperatingModeHeat, OperatingModeEco:
		return ModeHeat, true
	case OperatingModeCool:
		return ModeCool, true
	}
	return "", false
}

func (o OperatingMode) Preset() Preset {
	if o == OperatingModeEco {
		return PresetEco
	}
	return PresetNone
}

// SetpointParameter names the device parameter that holds the target
// temperature for this operating mode.
func (o OperatingMode) SetpointParameter() (string, bool) {
	switch o {
	case OperatingModeHeat:
		return "heatingSetpoint", true
	case OperatingModeCool:
		return "coolingSetpoint", true
	case OperatingModeEco:
		return "ecoSetpoint", true
	}
	return "", false
}

// FromMode translates a host HVAC mode into an operating mode.
func FromMode(m Mode) (OperatingMode, bool) {
	switch m {
	case ModeOff:
		return OperatingModeOff, true
	case ModeHeat:
		return OperatingModeHeat, true
	case ModeCool:
		return OperatingModeCool, true
	}
	return 0, false
}

// FromPreset translates a preset into an operating mode. Leaving eco
// goes back to plain heating.
func FromPreset(p Preset) (OperatingMode, bool) {
	switch p {
	case PresetEco:
		return OperatingModeEco, true
	case PresetNone, "":
		return OperatingModeHeat, true
	}
	return 0, false
}

// ActionForState maps the device state string to an action. Idle
// reports as off while the device is switched off. ok is false for
// states this device family does not report.
func ActionForState(state string, mode Mode) (Action, bool) {
	switch state {
	case "Idle":
		if mode == ModeOff {
			return ActionOff, true
		}
		return ActionIdle, true
	case "Heating":
		return ActionHeating, true
	case "Cooling":
		return ActionCooling, true
	}
	return "", false
}

// Modes lists the HVAC modes selectable from the current one. The
// device is either a heating or a cooling install, never both at once.
func Modes(current Mode) []Mode {
	if current == ModeCool {
		return []Mode{ModeOff, ModeCool}
	}
	return []Mode{ModeOff, ModeHeat}
}

func Presets() []Preset {
	return []Preset{PresetNone, PresetEco}
}
