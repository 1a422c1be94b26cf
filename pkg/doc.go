// Package pkg provides the core libraries for erdantic diagram generation.
//
// # Overview
//
// Erdantic turns data-model definitions into entity relationship diagrams
// showing composition: which models contain which other models, and whether
// each relationship is single or collection valued, mandatory or optional.
// The pkg directory is organized into five main areas:
//
//  1. [erd] - Domain logic (model contracts, adapter registry, discovery, diagrams)
//  2. [typeexpr] - Type expression tree and nested model-candidate extraction
//  3. [adapters] - Framework adapters (Go structs, TOML schema manifests)
//  4. [render] - Graphviz DOT generation and SVG/PNG rasterization
//  5. [cache] - Render artifact caching (file, redis, null backends)
//
// # Architecture
//
// The typical data flow:
//
//	Schema file / registered model types
//	         ↓
//	    [adapters] package (adapt to the Model contract)
//	         ↓
//	    [erd] package (discover the composition graph)
//	         ↓
//	    [render/dot] package (DOT + Graphviz rendering)
//	         ↓
//	    SVG/PNG/DOT output
//
// # Quick Start
//
// Discover a diagram from Go structs and render it:
//
//	import (
//	    "github.com/christophertubbs/erdantic/pkg/erd"
//	    "github.com/christophertubbs/erdantic/pkg/render/dot"
//
//	    _ "github.com/christophertubbs/erdantic/pkg/adapters/gostruct"
//	)
//
//	// 1. Discover the composition graph
//	diagram, _ := erd.Create([]any{Party{}}, erd.WithDepthLimit(2))
//
//	// 2. Render it
//	svg, _ := dot.RenderSVG(dot.ToDOT(diagram))
package pkg
