// Package hcl_adapter loads pipelines written in HCL:
//
//	source "input" {
//	  value = { x = 2 }
//	}
//
//	transform "double" {
//	  language = "js"
//	  code     = "return {y: input.x * 2};"
//	}
//
//	sink "output" {}
//
//	edge "e1" {
//	  from = "input"
//	  to   = "double"
//	}
//
// Blocks may appear in any order and across several files of a directory;
// nodes and edges keep the order they were declared in.
package hcl_adapter
