// Package mqtt carries rsp's two cross-process queues over an MQTT broker.
//
// The control process publishes telemetry batches on the telemetry topic
// and consumes operator commands from the command topic. The dashboard
// process does the reverse. Neither side acknowledges: telemetry is
// superseded by the next batch and commands are fire-and-forget.
//
//	control process  --telemetry-->  broker  --telemetry-->  dashboard
//	control process  <--commands---  broker  <--commands---  rsp command
//
// Usage:
//
//	client, err := mqtt.Connect(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	sink := mqtt.NewBatchSink(client, cfg.TelemetryTopic, cfg.QoS)
package mqtt
