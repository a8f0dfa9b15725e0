// Package registry holds the node kinds and transform languages known to a
// single application instance.
//
// Kinds describe the payload a node carries and how it may be wired: whether
// it accepts inbound edges and whether its value flows to downstream nodes.
// Languages map a tag such as "js" to the evaluator that runs transform code.
// Both are contributed by modules through the Module interface, the same way
// every build registers its built-ins.
package registry
