// Package thermostat adapts one Heatit WiFi6 device into the generic
// climate vocabulary: it owns the last polled snapshot and translates
// host commands back into device parameter writes.
package thermostat

import (
	"context"
	"fmt"
	"sync"

	"github.com/heatit-community/wifi6bridge/pkg/climate"
	"github.com/heatit-community/wifi6bridge/pkg/heatit"
	"github.com/sirupsen/logrus"
)

// API is the subset of the device client the adapter needs.
type API interface {
	Status(ctx context.Context) *heatit.Status
	SetParameter(ctx context.Context, parameter string, value any) bool
	Reset(ctx context.Context, resetType heatit.ResetType) error
}

type Thermostat struct {
	name string
	api  API

	mu              sync.RWMutex
	status          *heatit.Status
	available       bool
	mode            climate.Mode
	action          climate.Action
	preset          climate.Preset
	pendingSetpoint bool
}

func New(name string, api API) *Thermostat {
	return &Thermostat{
		name:   name,
		api:    api,
		mode:   climate.ModeOff,
		action: climate.ActionOff,
		preset: climate.PresetNone,
	}
}

func (t *Thermostat) Name() string {
	return t.name
}

func (t *Thermostat) Available() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.available
}

// Update polls the device once. A successful poll replaces the snapshot
// wholesale; a failed one keeps the stale snapshot and only flips
// availability, the next poll recovers.
func (t *Thermostat) Update(ctx context.Context) {
	status := t.api.Status(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if status == nil {
		logrus.Debugf("status fetch from %s failed, will retry on next poll", t.name)
		t.available = false
		t.mode = climate.ModeOff
		t.action = climate.ActionOff
		return
	}

	if t.pendingSetpoint && t.status != nil && t.status.Parameters != nil && status.Parameters != nil {
		// a setpoint write is in flight; the device has not confirmed
		// it yet and would report the old values here
		status.Parameters.HeatingSetpoint = t.status.Parameters.HeatingSetpoint
		status.Parameters.CoolingSetpoint = t.status.Parameters.CoolingSetpoint
		status.Parameters.EcoSetpoint = t.status.Parameters.EcoSetpoint
	}
	t.status = status
	t.available = true

	om, ok := operatingMode(status)
	if !ok {
		t.mode = ""
		t.preset = climate.PresetNone
	} else {
		mode, known := om.Mode()
		if !known {
			logrus.Errorf("unknown operating mode %d from %s", om, t.name)
		}
		t.mode = mode
		t.preset = om.Preset()
	}

	action, known := climate.ActionForState(status.State, t.mode)
	if !known {
		logrus.Errorf("unknown state %q from %s", status.State, t.name)
	}
	t.action = action

	logrus.Debugf("status fetched from %s", t.name)
}

// State returns the generic snapshot for publishing.
func (t *Thermostat) State() *climate.State {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := &climate.State{
		Mode:      t.mode,
		Action:    t.action,
		Preset:    t.preset,
		Available: t.available,
	}
	status := t.status
	if status == nil {
		return s
	}
	s.CurrentTemperature = currentTemperature(status)
	s.TargetTemperature = targetSetpoint(status)
	s.InternalTemperature = status.InternalTemperature
	s.ExternalTemperature = status.ExternalTemperature
	s.FloorTemperature = status.FloorTemperature
	s.CurrentPower = status.CurrentPower
	s.TotalConsumption = status.TotalConsumption
	s.Firmware = status.Firmware
	if status.Parameters != nil && status.Parameters.OWD != nil {
		s.OpenWindowActive = status.Parameters.OWD.ActiveNow
	}
	if status.Network != nil {
		s.WifiSignalStrength = status.Network.WifiSignalStrength
	}
	return s
}

// SetTemperature writes the target temperature for the current
// operating mode. Rejected while the device is off.
func (t *Thermostat) SetTemperature(ctx context.Context, temperature float64) error {
	t.mu.Lock()
	if t.mode == climate.ModeOff {
		t.mu.Unlock()
		t.Update(ctx)
		return fmt.Errorf("%s is switched off, target temperature can only be changed when on", t.name)
	}
	om, ok := operatingMode(t.status)
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%s has no known operating mode", t.name)
	}
	parameter, ok := om.SetpointParameter()
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("operating mode %d of %s has no setpoint", om, t.name)
	}
	t.pendingSetpoint = true
	t.mu.Unlock()

	written := t.api.SetParameter(ctx, parameter, temperature)

	t.mu.Lock()
	if written && t.status != nil && t.status.Parameters != nil {
		setSetpoint(t.status.Parameters, parameter, temperature)
	}
	t.pendingSetpoint = false
	t.mu.Unlock()

	if !written {
		return fmt.Errorf("writing %s=%v to %s failed", parameter, temperature, t.name)
	}
	t.Update(ctx)
	return nil
}

// SetMode switches the device between off, heat and cool. Only modes
// selectable from the current one are accepted, a heating install does
// not take cool and the other way around.
func (t *Thermostat) SetMode(ctx context.Context, mode climate.Mode) error {
	om, ok := climate.FromMode(mode)
	if !ok {
		return fmt.Errorf("unsupported mode for %s: %s", t.name, mode)
	}
	t.mu.RLock()
	selectable := climate.Modes(t.mode)
	t.mu.RUnlock()
	if !containsMode(selectable, mode) {
		return fmt.Errorf("mode %s is not selectable on %s, choose from %v", mode, t.name, selectable)
	}
	if !t.api.SetParameter(ctx, heatit.ParamOperatingMode, int(om)) {
		return fmt.Errorf("setting mode %s on %s failed", mode, t.name)
	}
	t.Update(ctx)
	return nil
}

// SetPreset toggles eco. Leaving eco returns to plain heating.
func (t *Thermostat) SetPreset(ctx context.Context, preset climate.Preset) error {
	om, ok := climate.FromPreset(preset)
	if !ok {
		return fmt.Errorf("unsupported preset for %s: %s", t.name, preset)
	}
	if !t.api.SetParameter(ctx, heatit.ParamOperatingMode, int(om)) {
		return fmt.Errorf("setting preset %s on %s failed", preset, t.name)
	}
	t.Update(ctx)
	return nil
}

func (t *Thermostat) Reset(ctx context.Context, resetType heatit.ResetType) error {
	if err := t.api.Reset(ctx, resetType); err != nil {
		return err
	}
	t.Update(ctx)
	return nil
}

func containsMode(modes []climate.Mode, mode climate.Mode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

func operatingMode(status *heatit.Status) (climate.OperatingMode, bool) {
	if status == nil || status.Parameters == nil || status.Parameters.OperatingMode == nil {
		return 0, false
	}
	return climate.OperatingMode(*status.Parameters.OperatingMode), true
}

// currentTemperature selects the sensor the device itself regulates on:
// sensorMode 0 is floor only, 3 and 4 use the external sensor,
// everything else the internal one.
func currentTemperature(status *heatit.Status) *float64 {
	if status.Parameters == nil || status.Parameters.SensorMode == nil {
		return status.InternalTemperature
	}
	switch *status.Parameters.SensorMode {
	case 0:
		return status.FloorTemperature
	case 3, 4:
		return status.ExternalTemperature
	default:
		return status.InternalTemperature
	}
}

func targetSetpoint(status *heatit.Status) *float64 {
	om, ok := operatingMode(status)
	if !ok || status.Parameters == nil {
		return nil
	}
	switch om {
	case climate.OperatingModeHeat:
		return status.Parameters.HeatingSetpoint
	case climate.OperatingModeCool:
		return status.Parameters.CoolingSetpoint
	case climate.OperatingModeEco:
		return status.Parameters.EcoSetpoint
	}
	return nil
}

func setSetpoint(p *heatit.Parameters, parameter string, value float64) {
	switch parameter {
	case heatit.ParamHeatingSetpoint:
		p.HeatingSetpoint = &value
	case heatit.ParamCoolingSetpoint:
		p.CoolingSetpoint = &value
	case heatit.ParamEcoSetpoint:
		p.EcoSetpoint = &value
	}
}
