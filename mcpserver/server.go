// Package mcpserver exposes the media tools, plus the optional arithmetic
// tools and greeting resources, over the Model Context Protocol.
package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/torre76/mediamcp/tools"
)

// Public types (alphabetical)

// Options configures New.
type Options struct {
	Name        string
	Version     string
	Description string
	// MathTools registers add, subtract, multiply and divide.
	MathTools bool
	// GreetingResources registers greeting://{name} and quote://daily.
	GreetingResources bool
	Logger            hclog.Logger
	// Now is the clock used by the resources. Defaults to time.Now.
	Now func() time.Time
}

// Server owns the MCP server and the catalog of what it registered.
type Server struct {
	server    *mcp.Server
	name      string
	version   string
	logger    hclog.Logger
	now       func() time.Time
	tools     []ToolInfo
	resources []ResourceInfo
}

// ResourceInfo describes one registered resource or resource template.
type ResourceInfo struct {
	URI         string
	Description string
}

// ToolInfo describes one registered tool.
type ToolInfo struct {
	Name        string
	Group       string
	Description string
}

// Public constants (alphabetical)

// Tool groups shown by the catalog.
const (
	GroupAudio    = "audio"
	GroupHardware = "hardware"
	GroupMath     = "math"
	GroupMerge    = "merge"
	GroupVideo    = "video"
)

// Private functions (alphabetical)

// resultText concatenates the text items of a tool result.
func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// textResult wraps a report in a single text content item.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// Public functions (alphabetical)

// New creates the server and registers the media tools of service and the
// optional extras.
func New(service *tools.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		}, &mcp.ServerOptions{Instructions: opts.Description}),
		name:    opts.Name,
		version: opts.Version,
		logger:  logger,
		now:     now,
	}

	s.registerMediaTools(service)
	if opts.MathTools {
		s.registerMathTools()
	}
	if opts.GreetingResources {
		s.registerGreetingResources()
	}
	logger.Debug("mcp server assembled", "tools", len(s.tools), "resources", len(s.resources))
	return s
}

// Public methods (alphabetical)

// Call invokes one tool in process through an in-memory client session and
// returns the text of the result and whether it is flagged as an error.
func (s *Server) Call(ctx context.Context, name string, arguments map[string]any) (string, bool, error) {
	if arguments == nil {
		arguments = map[string]any{}
	}
	var (
		text    string
		isError bool
	)
	err := s.withClient(ctx, func(cs *mcp.ClientSession) error {
		res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: arguments})
		if err != nil {
			return fmt.Errorf("call %s: %w", name, err)
		}
		text, isError = resultText(res), res.IsError
		return nil
	})
	return text, isError, err
}

// Resources returns the registered resources sorted by URI.
func (s *Server) Resources() []ResourceInfo {
	out := append([]ResourceInfo(nil), s.resources...)
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Read reads one resource in process and returns its text.
func (s *Server) Read(ctx context.Context, uri string) (string, error) {
	var text string
	err := s.withClient(ctx, func(cs *mcp.ClientSession) error {
		res, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
		if err != nil {
			return fmt.Errorf("read %s: %w", uri, err)
		}
		parts := make([]string, 0, len(res.Contents))
		for _, c := range res.Contents {
			parts = append(parts, c.Text)
		}
		text = strings.Join(parts, "\n")
		return nil
	})
	return text, err
}

// Run serves MCP over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving over stdio", "name", s.name, "version", s.version, "tools", len(s.tools))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Tools returns the registered tools sorted by group, then name.
func (s *Server) Tools() []ToolInfo {
	out := append([]ToolInfo(nil), s.tools...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Private methods (alphabetical)

// withClient connects an in-memory client to a fresh server session, runs fn
// and closes both ends.
func (s *Server) withClient(ctx context.Context, fn func(cs *mcp.ClientSession) error) error {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	session, err := s.server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return fmt.Errorf("connect server: %w", err)
	}
	defer session.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: s.name + "-cli", Version: s.version}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return fmt.Errorf("connect client: %w", err)
	}
	defer cs.Close()

	return fn(cs)
}
