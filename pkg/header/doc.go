// Package header provides the document header shared by recipekit outputs.
//
// Render results and lint reports embed a Header so consumers can tell the
// document type and schema version apart before decoding the body:
//
//	kind: RenderResult
//	apiVersion: recipekit.mchmarny.dev/v1alpha1
//	metadata:
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v0.3.0
//	  subdir: linux-64
//
// Timestamps use RFC3339 in UTC.
package header
