// Package influxdb mirrors sensor readings into InfluxDB.
//
// SQLite stays the source of truth for the API. InfluxDB receives a copy of
// every stored reading so growers can chart pH, water temperature and TDS
// with Flux or Grafana without touching the service database.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteSensorReading(influxdb.SensorReading{
//	    SystemID: 42, OwnerID: "alice", PH: 6.5, WaterTemp: 21.0, TDS: 800,
//	    Time: time.Now(),
//	})
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered to the
// SetOnError callback. Connection and health check errors are returned
// directly.
package influxdb
