// Recon - Movie Tracking and Personalized Recommendations
// Copyright 2026 The Recon Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reconhq/recon

/*
Package services adapts Recon components to suture's Serve(ctx) error model.

# Available Services

HTTP Server (HTTPServerService):
  - Runs ListenAndServe on a goroutine
  - Calls Shutdown with a bounded timeout when the context ends
  - Treats http.ErrServerClosed as a clean exit

Genre Warmer (GenreWarmerService):
  - Refreshes the catalog genre taxonomy on startup and on an interval
  - Logs refresh failures and keeps the previous taxonomy

Both implement fmt.Stringer so supervisor events name the service.

# Usage

	tree.AddCacheService(services.NewGenreWarmerService(genres, services.GenreWarmerConfig{
	    RefreshOnStartup: true,
	    Interval:         cfg.Catalog.GenreWarmInterval,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logging.Logger()))
*/
package services
