// Package mqtt publishes hydroponics events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Topics
//
// All topics live under a configured prefix and a version segment:
//
//	{prefix}/v1/service/status             retained online/offline status
//	{prefix}/v1/systems/{id}/readings      one message per stored reading
//	{prefix}/v1/systems/{id}/events        created/updated/deleted
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS) when the broker is not on localhost
//   - Payloads carry owner identifiers; restrict subscribers with broker ACLs
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	topic := client.Topics().SystemReadings(42)
//	err = client.Publish(topic, payload, client.QoS(), false)
package mqtt
