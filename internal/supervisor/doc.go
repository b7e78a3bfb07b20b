// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package supervisor provides process supervision for Guildsync using suture v4.

# Overview

The supervisor tree organizes services into three layers:

	RootSupervisor ("guildsync")
	├── StorageSupervisor ("storage-layer")
	│   └── BadgerGCService (STORAGE_ENGINE=badger)
	├── GatewaySupervisor ("gateway-layer")
	│   ├── DiscordSessionService (bot and combined modes)
	│   └── ConfigWatchService (when a config file is in use)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A Discord session that keeps failing to connect is restarted with backoff
inside the gateway layer while the HTTP API keeps serving from the store.

# Logging

Supervisor events (restarts, backoff, panics) are logged through sutureslog,
bridged onto zerolog by logging.NewSlogLogger.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor
