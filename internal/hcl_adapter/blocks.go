package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// valueBody is the body of a `source "<id>"` or `sink "<id>"` block. A sink
// may be given an initial value, which the first successful run replaces.
type valueBody struct {
	Value hcl.Expression `hcl:"value,optional"`
}

// transformBody is the body of a `transform "<id>"` block.
type transformBody struct {
	Language string `hcl:"language,optional"`
	Code     string `hcl:"code"`
}

// edgeBody is the body of an `edge "<id>"` block.
type edgeBody struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// fileSchema lists the top-level blocks a pipeline file may contain.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "source", LabelNames: []string{"id"}},
		{Type: "transform", LabelNames: []string{"id"}},
		{Type: "sink", LabelNames: []string{"id"}},
		{Type: "edge", LabelNames: []string{"id"}},
	},
}
