package htmlfigma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000/internal/cascade"
	"github.com/Floristeady/html-to-figma-sub000/internal/dom"
	"github.com/Floristeady/html-to-figma-sub000/internal/mapper"
	"github.com/Floristeady/html-to-figma-sub000/internal/render"
	"github.com/Floristeady/html-to-figma-sub000/internal/surface"
)

// Element is a styled HTML element.
type Element = dom.Element

// ErrInvalidRequest is returned for import arguments without a usable html string.
var ErrInvalidRequest = errors.New("invalid import request")

// Request is a validated import request.
type Request struct {
	HTML string `json:"html"`
	Name string `json:"name,omitempty"`
}

// DecodeRequest decodes the arguments of an import call. html must be
// present and a JSON string; a name that is not a string is ignored.
func DecodeRequest(arguments []byte) (Request, error) {
	var raw struct {
		HTML json.RawMessage `json:"html"`
		Name json.RawMessage `json:"name"`
	}
	if err := json.Unmarshal(arguments, &raw); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(raw.HTML) == 0 || string(raw.HTML) == "null" {
		return Request{}, fmt.Errorf("%w: html is required", ErrInvalidRequest)
	}

	var req Request
	if err := json.Unmarshal(raw.HTML, &req.HTML); err != nil {
		return Request{}, fmt.Errorf("%w: html must be a string", ErrInvalidRequest)
	}
	if len(raw.Name) > 0 {
		_ = json.Unmarshal(raw.Name, &req.Name)
	}
	return req, nil
}

// RenderOptions configure rendering.
type RenderOptions struct {
	// Name of the root frame. Defaults to "HTML Import".
	Name string
	// Width of the root frame. Defaults to 1200.
	Width float64
	// NumberOrderedLists numbers ordered list items instead of repeating "1. ".
	NumberOrderedLists bool
	// Logger receives debug and warning output. Nil discards it.
	Logger *zap.Logger
}

func (o RenderOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o RenderOptions) root() render.RootOptions {
	return render.RootOptions{Name: o.Name, Width: o.Width}
}

// RenderResult describes a finished render.
type RenderResult struct {
	// Root is the surface id of the import root frame.
	Root surface.NodeID
	// Nodes are the mapped layout decisions that were rendered.
	Nodes []*mapper.Node
	// Issues are non-fatal problems, such as rejected sizing or substituted fonts.
	Issues []Issue
}

// Convert parses a document into styled elements.
func Convert(html string) ([]*Element, error) {
	return convert(html, nil)
}

func convert(html string, log *zap.Logger) ([]*Element, error) {
	rules := cascade.NewResolver(log).Resolve(html)
	elements, err := dom.NewParser(rules, log).Parse(html)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return elements, nil
}

// Render draws elements under a new root frame on s, attaches the root to the
// canvas, centers it in the viewport and selects it.
func Render(ctx context.Context, elements []*Element, s surface.Surface, opts RenderOptions) (*RenderResult, error) {
	log := opts.logger()
	root := opts.root()

	m := mapper.New(mapper.Options{NumberOrderedLists: opts.NumberOrderedLists}, log)
	nodes := m.Map(elements, root.ContentWidth())

	r := render.New(s, log)
	id, err := r.Render(ctx, nodes, root)
	if err != nil {
		return nil, err
	}
	return &RenderResult{
		Root:   id,
		Nodes:  nodes,
		Issues: issuesFromWarnings(r.Warnings(), ""),
	}, nil
}

// Import converts and renders a request. The request name, when set,
// overrides opts.Name.
func Import(ctx context.Context, req Request, s surface.Surface, opts RenderOptions) (*RenderResult, error) {
	if req.Name != "" {
		opts.Name = req.Name
	}
	elements, err := convert(req.HTML, opts.Logger)
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("Converted request",
		zap.Int("bytes", len(req.HTML)), zap.Int("elements", dom.Count(elements)))
	return Render(ctx, elements, s, opts)
}

// ImportArguments decodes raw import arguments and imports them.
func ImportArguments(ctx context.Context, arguments []byte, s surface.Surface, opts RenderOptions) (*RenderResult, error) {
	req, err := DecodeRequest(arguments)
	if err != nil {
		return nil, err
	}
	return Import(ctx, req, s, opts)
}
