// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

/*
Package supervisor runs Recon's long-lived services under a suture v4 tree.

	RootSupervisor ("recon")
	├── CacheSupervisor ("cache-layer")
	│   └── GenreWarmerService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing cache warmer restarts on its own without touching the HTTP
server. Supervisor events are logged through sutureslog over the zerolog
slog adapter.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCacheService(services.NewGenreWarmerService(genres, services.GenreWarmerConfig{}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
