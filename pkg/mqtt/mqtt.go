package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/sirupsen/logrus"

	"github.com/heatit-community/wifi6bridge/pkg/climate"
	"github.com/heatit-community/wifi6bridge/pkg/heatit"
)

// Start runs the embedded broker until ctx is cancelled. The bridge
// publishes and subscribes through the broker's inline client, external
// consumers (Home Assistant, mosquitto_sub) connect over TCP.
func Start(ctx context.Context, wg *sync.WaitGroup, address string) (*mqttv2.Server, error) {
	wg.Add(1)
	server := mqttv2.New(&mqttv2.Options{
		InlineClient: true,
	})

	// Allow all connections.
	_ = server.AddHook(new(auth.AllowHook), nil)

	tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: address})
	err := server.AddListener(tcp)
	if err != nil {
		return server, err
	}

	err = server.Serve()
	if err != nil {
		return server, err
	}

	go func() {
		<-ctx.Done()
		server.Close()
		wg.Done()
	}()
	return server, nil
}

// CommandHandler receives the user commands arriving on the command
// topics. Implemented by the thermostat adapter.
type CommandHandler interface {
	SetTemperature(ctx context.Context, temperature float64) error
	SetMode(ctx context.Context, mode climate.Mode) error
	SetPreset(ctx context.Context, preset climate.Preset) error
	Reset(ctx context.Context, resetType heatit.ResetType) error
}

// Publisher wraps the inline client with the bridge's topic layout.
type Publisher struct {
	server *mqttv2.Server

	mutex sync.Mutex
	subID int
}

func NewPublisher(server *mqttv2.Server) *Publisher {
	return &Publisher{server: server}
}

func (p *Publisher) PublishState(id string, state *climate.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return p.server.Publish(StateTopic(id), payload, true, 0)
}

func (p *Publisher) PublishAvailability(id string, online bool) error {
	payload := "offline"
	if online {
		payload = "online"
	}
	return p.server.Publish(AvailabilityTopic(id), []byte(payload), true, 0)
}

// PublishDiscovery announces the device to Home Assistant.
func (p *Publisher) PublishDiscovery(id, name, deviceID string, mode climate.Mode) error {
	payload, err := json.Marshal(NewClimateDiscovery(id, name, deviceID, mode))
	if err != nil {
		return err
	}
	return p.server.Publish(DiscoveryTopic(id), payload, true, 0)
}

// SubscribeCommands routes heatit/<id>/set/+ to the handler.
func (p *Publisher) SubscribeCommands(id string, handler CommandHandler) error {
	p.mutex.Lock()
	p.subID++
	subID := p.subID
	p.mutex.Unlock()

	topic := fmt.Sprintf("%s/%s/set/+", topicPrefix, id)
	return p.server.Subscribe(topic, subID, func(cl *mqttv2.Client, sub packets.Subscription, pk packets.Packet) {
		handleCommand(handler, pk.TopicName, pk.Payload)
	})
}

func handleCommand(handler CommandHandler, topic string, payload []byte) {
	ctx := context.Background()
	parts := strings.Split(topic, "/")
	command := parts[len(parts)-1]
	value := strings.TrimSpace(string(payload))

	var err error
	switch command {
	case "temperature":
		temperature, perr := strconv.ParseFloat(value, 64)
		if perr != nil {
			logrus.Errorf("bad temperature payload %q on %s: %v", value, topic, perr)
			return
		}
		err = handler.SetTemperature(ctx, temperature)
	case "mode":
		err = handler.SetMode(ctx, climate.Mode(value))
	case "preset":
		err = handler.SetPreset(ctx, climate.Preset(value))
	case "reset":
		err = handler.Reset(ctx, heatit.ResetType(value))
	default:
		logrus.Errorf("unknown command topic: %s", topic)
		return
	}
	if err != nil {
		logrus.Error(err)
	}
}
