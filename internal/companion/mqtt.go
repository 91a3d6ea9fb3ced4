package companion

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Topics under quickalert/<device>/.
const (
	topicOutbox = "outbox"
	topicInbox  = "inbox"
	topicSystem = "system"
)

// Topic returns the full topic name for a device.
func Topic(device, name string) string {
	return "quickalert/" + device + "/" + name
}

// MQTTConfig configures an MQTTLink.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Device   string
	Username string
	Password string
}

// MQTTLink talks to the companion through an MQTT broker.
type MQTTLink struct {
	client paho.Client
	device string
	inbox  InboxHandler

	mu        sync.Mutex
	connected bool
}

// NewMQTTLink connects to the broker and subscribes to the inbox topic. If
// the broker is unreachable the link keeps retrying in the background and
// the constructor returns without error.
func NewMQTTLink(cfg MQTTConfig, inbox InboxHandler) (*MQTTLink, error) {
	l := &MQTTLink{device: cfg.Device, inbox: inbox}

	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(Topic(cfg.Device, topicSystem), string(will), 1, true).
		SetOnConnectHandler(l.onConnect).
		SetConnectionLostHandler(l.onConnectionLost)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	l.client = paho.NewClient(opts)
	token := l.client.Connect()
	if token.WaitTimeout(10 * time.Second) {
		if err := token.Error(); err != nil {
			return nil, fmt.Errorf("connect to broker: %w", err)
		}
	} else {
		log.Printf("companion: broker %s not reachable yet, retrying in background", cfg.Broker)
	}
	return l, nil
}

// onConnect (re)subscribes, so the inbox survives reconnects, and replaces
// a retained OFFLINE will the broker may have fired during the outage.
func (l *MQTTLink) onConnect(c paho.Client) {
	l.setConnected(true)
	log.Printf("companion: connected to broker")

	if online, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "ONLINE"}); err == nil {
		publish(c, Topic(l.device, topicSystem), 1, true, online, "ONLINE")
	}

	topic := Topic(l.device, topicInbox)
	token := c.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		l.handleInbox(msg.Payload())
	})
	go func() {
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("companion: subscribe %s: timeout", topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("companion: subscribe %s: %v", topic, err)
		}
	}()
}

func (l *MQTTLink) onConnectionLost(_ paho.Client, err error) {
	l.setConnected(false)
	log.Printf("companion: connection lost: %v", err)
}

func (l *MQTTLink) handleInbox(payload []byte) {
	updates, err := DecodeConfig(payload)
	if err != nil {
		log.Printf("companion: inbox message dropped in part: %v", err)
	}
	if len(updates) == 0 {
		return
	}
	log.Printf("companion: message received (%d fields)", len(updates))
	if l.inbox != nil {
		l.inbox(updates)
	}
}

func (l *MQTTLink) setConnected(c bool) {
	l.mu.Lock()
	l.connected = c
	l.mu.Unlock()
}

// IsConnected implements ConnectionStatus.
func (l *MQTTLink) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected && l.client.IsConnected()
}

// SendAlert publishes the alert marker on the outbox topic.
func (l *MQTTLink) SendAlert() error {
	l.publish(Topic(l.device, topicOutbox), 1, false, AlertPayload(), "alert")
	return nil
}

// RequestConfig publishes the configuration request on the outbox topic.
func (l *MQTTLink) RequestConfig() error {
	l.publish(Topic(l.device, topicOutbox), 1, false, ConfigRequestPayload(), "config request")
	return nil
}

// PublishSystem publishes a system event on the system topic.
func (l *MQTTLink) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	l.publish(Topic(l.device, topicSystem), 1, event.Retained, payload, event.Event)
	return nil
}

// publish hands the message to paho and logs the outcome from a separate
// goroutine, so callers on the event loop never wait on the network.
func (l *MQTTLink) publish(topic string, qos byte, retained bool, payload []byte, what string) {
	publish(l.client, topic, qos, retained, payload, what)
}

func publish(c paho.Client, topic string, qos byte, retained bool, payload []byte, what string) {
	token := c.Publish(topic, qos, retained, payload)
	go func() {
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("companion: outbox send failed: %s: timeout", what)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("companion: outbox send failed: %s: %v", what, err)
			return
		}
		log.Printf("companion: outbox send success: %s", what)
	}()
}

// Close disconnects from the broker.
func (l *MQTTLink) Close() error {
	l.setConnected(false)
	l.client.Disconnect(1000)
	return nil
}
