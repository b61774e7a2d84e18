package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/sirupsen/logrus"

	"github.com/heatit-community/wifi6bridge/pkg/climate"
	"github.com/heatit-community/wifi6bridge/pkg/config"
	"github.com/heatit-community/wifi6bridge/pkg/heatit"
	"github.com/heatit-community/wifi6bridge/pkg/metrics"
	"github.com/heatit-community/wifi6bridge/pkg/mqtt"
	"github.com/heatit-community/wifi6bridge/pkg/thermostat"
)

type App struct {
	wg     *sync.WaitGroup
	config *config.CliConfig

	broker  *mqttv2.Server
	devices []*device
}

func New(config *config.CliConfig) *App {
	return &App{
		wg:     &sync.WaitGroup{},
		config: config,
	}
}

func (a *App) Start(ctx context.Context) error {
	devices, err := config.LoadDevices(a.config.DevicesFile)
	if err != nil {
		return err
	}

	broker, err := mqtt.Start(ctx, a.wg, a.config.MQTTAddress)
	if err != nil {
		return err
	}
	a.broker = broker
	publisher := mqtt.NewPublisher(broker)

	sources := make([]metrics.Source, 0, len(devices))
	for i, dev := range devices {
		client := heatit.New(dev.Host, a.config.TLSSkipVerify)
		ts := thermostat.New(dev.Name, client)
		d := &device{
			index:      i,
			client:     client,
			thermostat: ts,
			publisher:  publisher,
			interval:   dev.Interval(a.config.PollInterval),
		}
		a.devices = append(a.devices, d)
		sources = append(sources, ts)

		a.wg.Add(1)
		go d.loop(ctx, a.wg)
	}

	a.startMetrics(ctx, sources)
	return nil
}

func (a *App) Wait() {
	a.wg.Wait()
}

// Broker exposes the embedded server, used by tests to observe topics.
func (a *App) Broker() *mqttv2.Server {
	return a.broker
}

func (a *App) startMetrics(ctx context.Context, sources []metrics.Source) {
	if a.config.MetricsAddress == "" {
		return
	}
	srv := &http.Server{
		Addr:    a.config.MetricsAddress,
		Handler: metrics.Handler(sources...),
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Error(err)
		}
	}()
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
}

// device runs one thermostat: its poll loop, its command subscription
// and its publishes. Devices share nothing.
type device struct {
	index      int
	client     *heatit.Client
	thermostat *thermostat.Thermostat
	publisher  *mqtt.Publisher
	interval   time.Duration
}

func (d *device) id() string {
	return d.thermostat.Name()
}

func (d *device) loop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	// stagger connects so a restart does not hit every device at once
	delay := time.Duration(d.index*2+2) * time.Second
	logrus.Infof("waiting %s before connecting %s", delay, d.id())
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}

	deviceID := d.client.DeviceID(ctx)
	if deviceID == heatit.UnknownDeviceID {
		logrus.Errorf("could not probe device id of %s, using the configured name", d.id())
		deviceID = d.id()
	}

	if err := d.publisher.SubscribeCommands(d.id(), d); err != nil {
		logrus.Error(err)
	}

	// first poll before discovery so the announced mode list matches
	// the install
	d.refresh(ctx)
	if err := d.publisher.PublishDiscovery(d.id(), d.thermostat.Name(), deviceID, d.thermostat.State().Mode); err != nil {
		logrus.Error(err)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (d *device) refresh(ctx context.Context) {
	d.thermostat.Update(ctx)
	d.publish()
}

func (d *device) publish() {
	state := d.thermostat.State()
	if err := d.publisher.PublishState(d.id(), state); err != nil {
		logrus.Error(err)
	}
	if err := d.publisher.PublishAvailability(d.id(), state.Available); err != nil {
		logrus.Error(err)
	}
}

// SetTemperature forwards the command and publishes the result.
func (d *device) SetTemperature(ctx context.Context, temperature float64) error {
	err := d.thermostat.SetTemperature(ctx, temperature)
	d.publish()
	return err
}

func (d *device) SetMode(ctx context.Context, mode climate.Mode) error {
	err := d.thermostat.SetMode(ctx, mode)
	d.publish()
	return err
}

func (d *device) SetPreset(ctx context.Context, preset climate.Preset) error {
	err := d.thermostat.SetPreset(ctx, preset)
	d.publish()
	return err
}

func (d *device) Reset(ctx context.Context, resetType heatit.ResetType) error {
	err := d.thermostat.Reset(ctx, resetType)
	d.publish()
	return err
}
