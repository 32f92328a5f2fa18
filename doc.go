// Package htmlfigma compiles HTML and CSS into design-tool node trees.
//
// A document goes through three stages: the cascade resolves every style
// rule, the structural parser turns the body into styled elements, and the
// renderer maps each element onto a design surface as auto-layout frames and
// text nodes.
//
// # Converting
//
// Convert is pure and can be called for any input:
//
//	elements, err := htmlfigma.Convert(`<div class="card"><h2>Title</h2></div>`)
//
// # Rendering
//
// Render draws elements on a surface.Surface. The in-memory surface.Scene is
// the reference surface and exports a serialisable document:
//
//	scene := surface.NewScene()
//	result, err := htmlfigma.Render(ctx, elements, scene, htmlfigma.RenderOptions{Name: "Landing"})
//	doc := scene.Document()
//
// Import validates a request (as sent by the MCP tool or the event stream),
// converts it and renders it in one call.
//
// # CLI Tool
//
// The htmlfigma command converts files in batch, watches a shared state file,
// serves an event stream and exposes the import as an MCP tool:
//
//	go install github.com/Floristeady/html-to-figma-sub000/cmd/htmlfigma@latest
package htmlfigma
