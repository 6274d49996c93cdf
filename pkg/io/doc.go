// Package io reads layer stacks and writes generated infill as JSON.
//
// # Input Format
//
// A layer stack lists the interior outlines of every slice, bottom layer
// first. Coordinates are integer micrometres:
//
//	{
//	  "layer_thickness": 200,
//	  "layers": [
//	    {"outlines": [[[0, 0], [20000, 0], [20000, 20000], [0, 20000]]]},
//	    {"outlines": []}
//	  ]
//	}
//
// Each outline is a closed ring of at least three points; the closing edge is
// implicit. Holes are given as further rings and resolved with the even-odd
// rule. A layer without outlines is allowed and receives no infill.
// layer_thickness is optional and overrides the configured thickness.
//
// # Output Format
//
// Generated infill is written per layer, in the same bottom-up order:
//
//	{
//	  "layers": [
//	    {"index": 0, "roots": [[100, 100]], "nodes": 17, "length": 51200,
//	     "lines": [[[100, 100], [4100, 200]], ...]}
//	  ]
//	}
//
// Every line is a two-point segment ready for path planning; roots are the
// locations where trees rest on the layer outline. [ReadLines]
// decodes the same format, which the pipeline uses for its cache.
//
// # Errors
//
// Malformed documents and invalid geometry are reported with the
// [errors.ErrCodeInvalidInput] code and the offending layer and outline.
//
// [errors.ErrCodeInvalidInput]: github.com/matzehuels/lightning/pkg/errors.ErrCodeInvalidInput
package io
