package config

import "fmt"

// InfluxConfig enables persistence of per-asset step points.
type InfluxConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}

// MQTTConfig enables live streaming of step records for dashboards.
type MQTTConfig struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// MetricsConfig exposes Prometheus metrics over HTTP.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// APIConfig configures the dashboard-facing HTTP API served by the serve
// command.
type APIConfig struct {
	Addr string `json:"addr"`
}

// OutputsConfig gathers every consumer of a finished run. File paths left
// empty disable that writer, except the results CSV which always has a
// destination.
type OutputsConfig struct {
	ResultsCSV  string        `json:"results_csv"`
	PricesCSV   string        `json:"prices_csv"`
	SummaryJSON string        `json:"summary_json"`
	Influx      InfluxConfig  `json:"influx"`
	MQTT        MQTTConfig    `json:"mqtt"`
	Metrics     MetricsConfig `json:"metrics"`
	API         APIConfig     `json:"api"`
}

// SetDefaults mirrors the conventional output layout.
func (c *OutputsConfig) SetDefaults() {
	if c.ResultsCSV == "" {
		c.ResultsCSV = "simulation_results/results.csv"
	}
	if c.PricesCSV == "" {
		c.PricesCSV = "simulation_results/prices.csv"
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "fleetsim"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "fleetsim"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	if c.API.Addr == "" {
		c.API.Addr = ":8080"
	}
}

// Validate rejects impossible sink settings.
func (c OutputsConfig) Validate() error {
	if c.Influx.Enabled && c.Influx.URL == "" {
		return fmt.Errorf("outputs: influx enabled without url")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("outputs: mqtt enabled without broker")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("outputs: mqtt qos must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	return nil
}
