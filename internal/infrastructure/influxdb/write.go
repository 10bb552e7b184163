package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementSensorReading = "sensor_reading"
	MeasurementSystemEvent   = "system_event"
)

// SensorReading is one reading as written to InfluxDB. Values are floats
// because Flux aggregations work on floats.
type SensorReading struct {
	SystemID  int64
	OwnerID   string
	PH        float64
	WaterTemp float64
	TDS       float64
	Time      time.Time
}

// WriteSensorReading queues a reading point. The write is non-blocking;
// failures surface through SetOnError.
func (c *Client) WriteSensorReading(r SensorReading) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(sensorReadingPoint(r))
}

// WriteSystemEvent records a system lifecycle change with the plant count
// at that moment, so plant count can be graphed next to the readings.
func (c *Client) WriteSystemEvent(systemID int64, ownerID, event string, plantCount int, at time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(systemEventPoint(systemID, ownerID, event, plantCount, at))
}

func sensorReadingPoint(r SensorReading) *write.Point {
	return write.NewPoint(
		MeasurementSensorReading,
		map[string]string{
			"system_id": strconv.FormatInt(r.SystemID, 10),
			"owner_id":  r.OwnerID,
		},
		map[string]any{
			"ph":         r.PH,
			"water_temp": r.WaterTemp,
			"tds":        r.TDS,
		},
		r.Time,
	)
}

func systemEventPoint(systemID int64, ownerID, event string, plantCount int, at time.Time) *write.Point {
	return write.NewPoint(
		MeasurementSystemEvent,
		map[string]string{
			"system_id": strconv.FormatInt(systemID, 10),
			"owner_id":  ownerID,
			"event":     event,
		},
		map[string]any{
			"plant_count": plantCount,
		},
		at,
	)
}
