// Package api serves lightning infill over HTTP.
//
// # Endpoints
//
//	GET  /healthz                        liveness and build info
//	POST /v1/jobs                        submit a layer stack
//	GET  /v1/jobs                        list recent jobs
//	GET  /v1/jobs/{id}                   job status and statistics
//	GET  /v1/jobs/{id}/lines             generated lines (JSON)
//	GET  /v1/jobs/{id}/layers/{n}.svg    layer preview
//	GET  /v1/jobs/{id}/layers/{n}.png    rasterized layer preview
//
// A job request wraps the layer stack of [io.ReadJSON] with optional
// settings:
//
//	{
//	  "stack": {"layers": [{"outlines": [[[0, 0], [20000, 0], [20000, 20000]]]}]},
//	  "settings": {"line_distance": 3000, ...},
//	  "kernel": "sdfx"
//	}
//
// Jobs run in the background and are polled by ID. Adding ?wait=true to the
// submission runs the job before responding.
//
// # Errors
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} using
// the codes of [errors]. Invalid input maps to 400, unknown jobs to 404 and
// backend failures to 500.
//
// [io.ReadJSON]: github.com/matzehuels/lightning/pkg/io.ReadJSON
// [errors]: github.com/matzehuels/lightning/pkg/errors
package api
