package thermostat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heatit-community/wifi6bridge/pkg/climate"
	"github.com/heatit-community/wifi6bridge/pkg/heatit"
)

type setCall struct {
	parameter string
	value     any
}

type fakeAPI struct {
	status   *heatit.Status
	setOK    bool
	setCalls []setCall
	resets   []heatit.ResetType
	resetErr error
}

func (f *fakeAPI) Status(ctx context.Context) *heatit.Status {
	return f.status
}

func (f *fakeAPI) SetParameter(ctx context.Context, parameter string, value any) bool {
	f.setCalls = append(f.setCalls, setCall{parameter: parameter, value: value})
	return f.setOK
}

func (f *fakeAPI) Reset(ctx context.Context, resetType heatit.ResetType) error {
	f.resets = append(f.resets, resetType)
	return f.resetErr
}

func fp(v float64) *float64 {
	return &v
}

func ip(v int) *int {
	return &v
}

func testStatus(operatingMode int, state string) *heatit.Status {
	return &heatit.Status{
		ID:                  "office",
		State:               state,
		InternalTemperature: fp(21.0),
		ExternalTemperature: fp(19.0),
		FloorTemperature:    fp(24.0),
		Parameters: &heatit.Parameters{
			SensorMode:      ip(1),
			HeatingSetpoint: fp(22.0),
			CoolingSetpoint: fp(18.0),
			EcoSetpoint:     fp(17.0),
			OperatingMode:   ip(operatingMode),
		},
	}
}

func TestUpdateHeating(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating)}
	ts := New("office", api)

	ts.Update(context.Background())

	state := ts.State()
	assert.True(t, state.Available)
	assert.Equal(t, climate.ModeHeat, state.Mode)
	assert.Equal(t, climate.ActionHeating, state.Action)
	assert.Equal(t, climate.PresetNone, state.Preset)
	assert.Equal(t, 21.0, *state.CurrentTemperature)
	assert.Equal(t, 22.0, *state.TargetTemperature)
}

func TestUpdateEcoIsHeatWithEcoPresetAndSetpoint(t *testing.T) {
	api := &fakeAPI{status: testStatus(3, heatit.StateIdle)}
	ts := New("office", api)

	ts.Update(context.Background())

	state := ts.State()
	assert.Equal(t, climate.ModeHeat, state.Mode)
	assert.Equal(t, climate.PresetEco, state.Preset)
	assert.Equal(t, climate.ActionIdle, state.Action)
	assert.Equal(t, 17.0, *state.TargetTemperature)
}

func TestUpdateOffIdleReportsActionOff(t *testing.T) {
	api := &fakeAPI{status: testStatus(0, heatit.StateIdle)}
	ts := New("office", api)

	ts.Update(context.Background())

	state := ts.State()
	assert.Equal(t, climate.ModeOff, state.Mode)
	assert.Equal(t, climate.ActionOff, state.Action)
	assert.Nil(t, state.TargetTemperature)
}

func TestUpdateFailureKeepsStaleSnapshot(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating)}
	ts := New("office", api)
	ts.Update(context.Background())

	api.status = nil
	ts.Update(context.Background())

	state := ts.State()
	assert.False(t, state.Available)
	assert.Equal(t, climate.ModeOff, state.Mode)
	assert.Equal(t, climate.ActionOff, state.Action)
	// temperatures from the last good poll stay visible
	assert.Equal(t, 21.0, *state.CurrentTemperature)

	// and the next successful poll recovers
	api.status = testStatus(1, heatit.StateHeating)
	ts.Update(context.Background())
	assert.True(t, ts.Available())
	assert.Equal(t, climate.ModeHeat, ts.State().Mode)
}

func TestUpdateKeepsSetpointsWhileWritePending(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating)}
	ts := New("office", api)
	ts.Update(context.Background())

	ts.mu.Lock()
	ts.status.Parameters.HeatingSetpoint = fp(25.0)
	ts.pendingSetpoint = true
	ts.mu.Unlock()

	// device still reports the old value until it confirms the write
	api.status = testStatus(1, heatit.StateHeating)
	ts.Update(context.Background())
	assert.Equal(t, 25.0, *ts.State().TargetTemperature)

	ts.mu.Lock()
	ts.pendingSetpoint = false
	ts.mu.Unlock()

	api.status = testStatus(1, heatit.StateHeating)
	ts.Update(context.Background())
	assert.Equal(t, 22.0, *ts.State().TargetTemperature)
}

func TestSetTemperatureRejectedWhenOff(t *testing.T) {
	api := &fakeAPI{status: testStatus(0, heatit.StateIdle), setOK: true}
	ts := New("office", api)
	ts.Update(context.Background())

	err := ts.SetTemperature(context.Background(), 21.5)
	assert.Error(t, err)
	assert.Empty(t, api.setCalls)
}

func TestSetTemperature(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating), setOK: true}
	ts := New("office", api)
	ts.Update(context.Background())

	err := ts.SetTemperature(context.Background(), 21.5)
	assert.NoError(t, err)
	assert.Equal(t, []setCall{{parameter: heatit.ParamHeatingSetpoint, value: 21.5}}, api.setCalls)
	assert.False(t, ts.pendingSetpoint)
}

func TestSetTemperatureEcoWritesEcoSetpoint(t *testing.T) {
	api := &fakeAPI{status: testStatus(3, heatit.StateIdle), setOK: true}
	ts := New("office", api)
	ts.Update(context.Background())

	err := ts.SetTemperature(context.Background(), 16.5)
	assert.NoError(t, err)
	assert.Equal(t, []setCall{{parameter: heatit.ParamEcoSetpoint, value: 16.5}}, api.setCalls)
}

func TestSetTemperatureWriteFailure(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating), setOK: false}
	ts := New("office", api)
	ts.Update(context.Background())

	err := ts.SetTemperature(context.Background(), 21.5)
	assert.Error(t, err)
	assert.False(t, ts.pendingSetpoint)
	// the local snapshot keeps the device's value
	assert.Equal(t, 22.0, *ts.State().TargetTemperature)
}

func TestSetModeRejectsModeNotSelectable(t *testing.T) {
	// heating install: cool is not offered and must be refused
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating), setOK: true}
	ts := New("office", api)
	ts.Update(context.Background())

	err := ts.SetMode(context.Background(), climate.ModeCool)
	assert.ErrorContains(t, err, "not selectable")
	assert.Empty(t, api.setCalls)

	// and the other way around on a cooling install
	api = &fakeAPI{status: testStatus(2, heatit.StateCooling), setOK: true}
	ts = New("office", api)
	ts.Update(context.Background())

	err = ts.SetMode(context.Background(), climate.ModeHeat)
	assert.ErrorContains(t, err, "not selectable")
	assert.Empty(t, api.setCalls)

	assert.NoError(t, ts.SetMode(context.Background(), climate.ModeOff))
	assert.Equal(t, []setCall{{parameter: heatit.ParamOperatingMode, value: 0}}, api.setCalls)
}

func TestSetMode(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating), setOK: true}
	ts := New("office", api)

	err := ts.SetMode(context.Background(), climate.ModeOff)
	assert.NoError(t, err)
	assert.Equal(t, []setCall{{parameter: heatit.ParamOperatingMode, value: 0}}, api.setCalls)

	err = ts.SetMode(context.Background(), climate.Mode("auto"))
	assert.Error(t, err)
	assert.Len(t, api.setCalls, 1)
}

func TestSetPreset(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating), setOK: true}
	ts := New("office", api)

	err := ts.SetPreset(context.Background(), climate.PresetEco)
	assert.NoError(t, err)
	assert.Equal(t, []setCall{{parameter: heatit.ParamOperatingMode, value: 3}}, api.setCalls)

	err = ts.SetPreset(context.Background(), climate.PresetNone)
	assert.NoError(t, err)
	assert.Equal(t, setCall{parameter: heatit.ParamOperatingMode, value: 1}, api.setCalls[1])
}

func TestReset(t *testing.T) {
	api := &fakeAPI{status: testStatus(1, heatit.StateHeating), setOK: true}
	ts := New("office", api)

	assert.NoError(t, ts.Reset(context.Background(), heatit.ResetKWH))
	assert.Equal(t, []heatit.ResetType{heatit.ResetKWH}, api.resets)
}

func TestCurrentTemperatureFollowsSensorMode(t *testing.T) {
	var tests = []struct {
		name       string
		sensorMode *int
		want       float64
	}{
		{name: "floor sensor", sensorMode: ip(0), want: 24.0},
		{name: "internal sensor", sensorMode: ip(1), want: 21.0},
		{name: "external sensor", sensorMode: ip(3), want: 19.0},
		{name: "external with floor limit", sensorMode: ip(4), want: 19.0},
		{name: "missing sensor mode", sensorMode: nil, want: 21.0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			status := testStatus(1, heatit.StateHeating)
			status.Parameters.SensorMode = tt.sensorMode
			assert.Equal(t, tt.want, *currentTemperature(status))
		})
	}
}
