package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heatit-community/wifi6bridge/pkg/climate"
)

// Source is a thermostat snapshot provider. Collect reads cached
// snapshots only, it never touches the network.
type Source interface {
	Name() string
	State() *climate.State
}

type Collector struct {
	sources []Source

	available   *prometheus.GaugeVec
	temperature *prometheus.GaugeVec
	target      *prometheus.GaugeVec
	power       *prometheus.GaugeVec
	consumption *prometheus.GaugeVec
	wifiSignal  *prometheus.GaugeVec
	mode        *prometheus.GaugeVec
	action      *prometheus.GaugeVec
}

func NewCollector(sources ...Source) *Collector {
	device := []string{"device"}
	return &Collector{
		sources: sources,
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_available",
			Help: "Whether the last status poll succeeded (1=available)",
		}, device),
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_temperature_celsius",
			Help: "Reported temperatures per sensor",
		}, []string{"device", "sensor"}),
		target: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_target_temperature_celsius",
			Help: "Active setpoint for the current operating mode",
		}, device),
		power: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_current_power_watts",
			Help: "Current load power",
		}, device),
		consumption: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_total_consumption_kwh",
			Help: "Accumulated energy consumption",
		}, device),
		wifiSignal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_wifi_signal_strength",
			Help: "Wifi signal strength reported by the device",
		}, device),
		mode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_mode",
			Help: "Current HVAC mode (1=active)",
		}, []string{"device", "mode"}),
		action: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wifi6bridge_action",
			Help: "Current HVAC action (1=active)",
		}, []string{"device", "action"}),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.available.Describe(ch)
	c.temperature.Describe(ch)
	c.target.Describe(ch)
	c.power.Describe(ch)
	c.consumption.Describe(ch)
	c.wifiSignal.Describe(ch)
	c.mode.Describe(ch)
	c.action.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.temperature.Reset()
	c.target.Reset()
	c.power.Reset()
	c.consumption.Reset()
	c.wifiSignal.Reset()
	c.mode.Reset()
	c.action.Reset()

	for _, source := range c.sources {
		name := source.Name()
		state := source.State()

		c.available.WithLabelValues(name).Set(boolToFloat(state.Available))
		if state.InternalTemperature != nil {
			c.temperature.WithLabelValues(name, "internal").Set(*state.InternalTemperature)
		}
		if state.ExternalTemperature != nil {
			c.temperature.WithLabelValues(name, "external").Set(*state.ExternalTemperature)
		}
		if state.FloorTemperature != nil {
			c.temperature.WithLabelValues(name, "floor").Set(*state.FloorTemperature)
		}
		if state.TargetTemperature != nil {
			c.target.WithLabelValues(name).Set(*state.TargetTemperature)
		}
		if state.CurrentPower != nil {
			c.power.WithLabelValues(name).Set(*state.CurrentPower)
		}
		if state.TotalConsumption != nil {
			c.consumption.WithLabelValues(name).Set(*state.TotalConsumption)
		}
		if state.WifiSignalStrength != nil {
			c.wifiSignal.WithLabelValues(name).Set(float64(*state.WifiSignalStrength))
		}
		if state.Mode != "" {
			c.mode.WithLabelValues(name, string(state.Mode)).Set(1)
		}
		if state.Action != "" {
			c.action.WithLabelValues(name, string(state.Action)).Set(1)
		}
	}

	c.available.Collect(ch)
	c.temperature.Collect(ch)
	c.target.Collect(ch)
	c.power.Collect(ch)
	c.consumption.Collect(ch)
	c.wifiSignal.Collect(ch)
	c.mode.Collect(ch)
	c.action.Collect(ch)
}

// Handler serves a registry holding only the bridge collector.
func Handler(sources ...Source) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(sources...))
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
