// Package influxdb records generation-run telemetry in InfluxDB v2.
//
// Telemetry is strictly optional: when disabled in the settings Connect
// returns ErrDisabled and the rest of the tool carries on. Each run
// produces one point in the generation_runs measurement carrying the run
// ID, the inventory source used, success, output counts and duration,
// which is enough to chart generation health over time.
package influxdb
