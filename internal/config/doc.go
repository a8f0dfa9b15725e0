// Package config defines the format-agnostic model of a pipeline file,
// the Loader interface that reads one, and Apply, which replays a loaded
// pipeline into a graph store.
//
// JSON and YAML documents are handled here. HCL files are handled by
// internal/hcl_adapter, which produces the same Pipeline model.
package config
