// Package rsp provides the staging supervisor as an embeddable component.
//
// A Controller discovers vehicles through a Provider, runs one automation
// task per vehicle (fairing jettison, payload deploy, gear deploy), consumes
// operator commands and publishes coalesced telemetry. Transports such as
// MQTT attach to the command and telemetry queues.
//
// # Basic Usage
//
//	cfg := rsp.DefaultConfig()
//
//	ctl, err := rsp.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctl.Close()
//
//	if err := ctl.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal or <-ctl.Done() ...
//
//	if err := ctl.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// Without [WithProvider], New dials the built-in flight simulation.
//
// # Lifecycle States
//
// A Controller can be in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping], or [StateCrashed]. It crashes when the
// provider connection is lost or an added loop fails.
//
// # Plugins
//
//	ctl, err := rsp.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{Reload: reload}),
//	)
//
// Plugins receive the live [TunableStore] and may swap jettison thresholds
// and action groups while the Controller runs.
package rsp
