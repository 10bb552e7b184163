package telemetry

import (
	"context"
	"time"

	"github.com/nerrad567/hydroponics-core/internal/hydroponics"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/influxdb"
)

// PointWriter is the subset of *influxdb.Client used by InfluxNotifier.
type PointWriter interface {
	WriteSensorReading(r influxdb.SensorReading)
	WriteSystemEvent(systemID int64, ownerID, event string, plantCount int, at time.Time)
}

// InfluxNotifier mirrors readings and plant-count changes into InfluxDB.
// Writes are batched by the client, so it never reports an error.
type InfluxNotifier struct {
	w PointWriter
}

// NewInfluxNotifier creates a notifier writing through w.
func NewInfluxNotifier(w PointWriter) *InfluxNotifier {
	return &InfluxNotifier{w: w}
}

// ReadingCreated writes the reading at its stored created_at.
func (n *InfluxNotifier) ReadingCreated(_ context.Context, ownerID string, rd hydroponics.Reading) error {
	n.w.WriteSensorReading(influxdb.SensorReading{
		SystemID:  rd.SystemID,
		OwnerID:   ownerID,
		PH:        rd.PH.Float64(),
		WaterTemp: rd.WaterTemp.Float64(),
		TDS:       rd.TDS.Float64(),
		Time:      rd.CreatedAt,
	})
	return nil
}

// SystemChanged records the plant count after the change.
func (n *InfluxNotifier) SystemChanged(_ context.Context, event hydroponics.SystemEvent, s hydroponics.System) error {
	n.w.WriteSystemEvent(s.ID, s.OwnerID, string(event), s.PlantCount, time.Now())
	return nil
}
