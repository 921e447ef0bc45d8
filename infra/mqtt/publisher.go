// Package mqtt streams run activity to an MQTT broker so dashboards can
// follow a simulation live.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"fleetsim/core/model"
	"fleetsim/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT publisher.
type Config struct {
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// pahoClient is the slice of the Paho API the publisher uses.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher publishes each timestep record to <prefix>/runs/<run-id>/steps
// and the final summary to <prefix>/runs/<run-id>/summary. It implements
// sink.Sink.
type Publisher struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// NewPublisher connects to the broker. Connection failures are returned, not
// retried: streaming is an optional output and the caller decides whether a
// run may proceed without it.
func NewPublisher(cfg Config) (*Publisher, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	log := logger.New("mqtt-publisher")
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Publisher{cli: c, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: log}, nil
}

// RecordStep publishes one record to the run's step topic.
func (p *Publisher) RecordStep(rec model.TimestepRecord) error {
	return p.publish(fmt.Sprintf("%s/runs/%s/steps", p.prefix, rec.RunID), rec)
}

// runSummary is the compact payload published at run end; the full record
// list already went out step by step.
type runSummary struct {
	RunID        string             `json:"run_id"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   time.Time          `json:"finished_at"`
	Steps        int                `json:"steps"`
	FleetRevenue float64            `json:"fleet_revenue"`
	Anomalies    int                `json:"anomalies"`
	Totals       []model.AssetTotal `json:"totals"`
}

// RecordResult publishes the run summary to the run's summary topic.
func (p *Publisher) RecordResult(res *model.SimulationResult) error {
	return p.publish(fmt.Sprintf("%s/runs/%s/summary", p.prefix, res.RunID), runSummary{
		RunID:        res.RunID,
		StartedAt:    res.StartedAt,
		FinishedAt:   res.FinishedAt,
		Steps:        res.Steps(),
		FleetRevenue: res.FleetRevenue,
		Anomalies:    res.Anomalies,
		Totals:       res.Totals,
	})
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.cli.Disconnect(250)
	return nil
}

func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := p.cli.Publish(topic, p.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
