package mcpserver

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/torre76/mediamcp/command"
)

// Private constants (alphabetical)
const (
	greetingScheme   = "greeting://"
	greetingTemplate = greetingScheme + "{name}"
	quoteURI         = "quote://daily"
)

// Private types (alphabetical)

// divideArgs is the input of divide. Both operands are required.
type divideArgs struct {
	A float64 `json:"a" jsonschema:"dividend"`
	B float64 `json:"b" jsonschema:"divisor, must not be zero"`
}

// productArgs is the input of multiply. Missing operands default to 1.
type productArgs struct {
	A *int `json:"a,omitempty" jsonschema:"first factor (default 1)"`
	B *int `json:"b,omitempty" jsonschema:"second factor (default 1)"`
}

// sumArgs is the input of add and subtract. Missing operands default to 0.
type sumArgs struct {
	A int `json:"a,omitempty" jsonschema:"first operand (default 0)"`
	B int `json:"b,omitempty" jsonschema:"second operand (default 0)"`
}

// Private variables (alphabetical)

var dailyQuotes = []string{
	"Today is a new day, full of endless possibilities.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"Learning is a lifelong pursuit.",
	"Every setback is a chance to grow.",
	"Stay curious and the world becomes more interesting.",
}

// Private functions (alphabetical)

// greetingFor picks the salutation for an hour of the day.
func greetingFor(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// intOr dereferences v, or returns fallback when v is nil.
func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// textResource wraps text as the single content of a resource read.
func textResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{
		URI:      uri,
		MIMEType: "text/plain",
		Text:     text,
	}}}
}

// Private methods (alphabetical)

// registerGreetingResources adds greeting://{name} and quote://daily.
func (s *Server) registerGreetingResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "greeting",
		URITemplate: greetingTemplate,
		Description: "A personalized greeting for the time of day",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		name, err := url.PathUnescape(strings.TrimPrefix(uri, greetingScheme))
		if err != nil || name == "" {
			return nil, fmt.Errorf("greeting needs a name: %s", uri)
		}
		now := s.now()
		text := fmt.Sprintf("%s, %s! It is now %s", greetingFor(now.Hour()), name, now.Format("2006-01-02 15:04:05"))
		return textResource(uri, text), nil
	})
	s.resources = append(s.resources, ResourceInfo{URI: greetingTemplate, Description: "A personalized greeting for the time of day"})

	s.server.AddResource(&mcp.Resource{
		Name:        "daily_quote",
		URI:         quoteURI,
		Description: "The quote of the day",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		quote := dailyQuotes[s.now().YearDay()%len(dailyQuotes)]
		return textResource(req.Params.URI, "📝 Daily quote: "+quote), nil
	})
	s.resources = append(s.resources, ResourceInfo{URI: quoteURI, Description: "The quote of the day"})
}

// registerMathTools adds the integer and float arithmetic tools.
func (s *Server) registerMathTools() {
	addReportTool(s, GroupMath, "add", "Add two integers.",
		func(_ context.Context, in sumArgs) string { return strconv.Itoa(in.A + in.B) })
	addReportTool(s, GroupMath, "subtract", "Subtract the second integer from the first.",
		func(_ context.Context, in sumArgs) string { return strconv.Itoa(in.A - in.B) })
	addReportTool(s, GroupMath, "multiply", "Multiply two integers.",
		func(_ context.Context, in productArgs) string { return strconv.Itoa(intOr(in.A, 1) * intOr(in.B, 1)) })

	const divideDescription = "Divide the first number by the second."
	mcp.AddTool(s.server, &mcp.Tool{Name: "divide", Description: divideDescription},
		func(_ context.Context, _ *mcp.CallToolRequest, in divideArgs) (*mcp.CallToolResult, any, error) {
			if in.B == 0 {
				res := textResult("Error: the divisor must not be zero")
				res.IsError = true
				return res, nil, nil
			}
			return textResult(command.FormatFloat(in.A / in.B)), nil, nil
		})
	s.tools = append(s.tools, ToolInfo{Name: "divide", Group: GroupMath, Description: divideDescription})
}
