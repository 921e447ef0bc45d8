package mqtt

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"fleetsim/core/model"
)

// mockClient implements pahoClient for tests.
type mockClient struct {
	opts      *paho.ClientOptions
	published []struct {
		topic   string
		qos     byte
		payload []byte
	}
	publishErrs []error
	connectErr  error
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	return &dummyToken{err: m.connectErr}
}
func (m *mockClient) Disconnect(uint) {}
func (m *mockClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	m.published = append(m.published, struct {
		topic   string
		qos     byte
		payload []byte
	}{topic, qos, payload.([]byte)})
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		return &dummyToken{err: err}
	}
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

func swapClient(t *testing.T, mc *mockClient) {
	t.Helper()
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
}

func TestPublisher_Topics(t *testing.T) {
	mc := &mockClient{}
	swapClient(t, mc)

	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", TopicPrefix: "fleetsim", QoS: 1})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	rec := model.TimestepRecord{RunID: "run-1", PriceMWh: 60}
	if err := pub.RecordStep(rec); err != nil {
		t.Fatalf("record step: %v", err)
	}
	res := &model.SimulationResult{RunID: "run-1", FleetRevenue: 550}
	if err := pub.RecordResult(res); err != nil {
		t.Fatalf("record result: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(mc.published) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(mc.published))
	}
	if mc.published[0].topic != "fleetsim/runs/run-1/steps" || mc.published[0].qos != 1 {
		t.Fatalf("unexpected step publish: %+v", mc.published[0])
	}
	if mc.published[1].topic != "fleetsim/runs/run-1/summary" {
		t.Fatalf("unexpected summary topic: %s", mc.published[1].topic)
	}

	var gotRec model.TimestepRecord
	if err := json.Unmarshal(mc.published[0].payload, &gotRec); err != nil {
		t.Fatalf("step payload: %v", err)
	}
	if gotRec.RunID != "run-1" || gotRec.PriceMWh != 60 {
		t.Fatalf("step payload mismatch: %+v", gotRec)
	}
	var gotSum runSummary
	if err := json.Unmarshal(mc.published[1].payload, &gotSum); err != nil {
		t.Fatalf("summary payload: %v", err)
	}
	if gotSum.FleetRevenue != 550 {
		t.Fatalf("summary payload mismatch: %+v", gotSum)
	}
}

func TestPublisher_PublishErrorSurfaces(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail")}}
	swapClient(t, mc)

	pub, err := NewPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id", TopicPrefix: "fleetsim"})
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	if err := pub.RecordStep(model.TimestepRecord{RunID: "r"}); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestPublisher_ConnectErrorSurfaces(t *testing.T) {
	mc := &mockClient{connectErr: fmt.Errorf("refused")}
	swapClient(t, mc)

	if _, err := NewPublisher(Config{Broker: "tcp://localhost:1883", ClientID: "id"}); err == nil {
		t.Fatal("expected connect error")
	}
}
