// Command weathermcp is the companion MCP tool server the hosted agent
// calls. It exposes get_forecast and get_alerts over streamable HTTP —
// the transport the agent platform speaks — and serves canned, city-seeded
// weather data so the whole sample can run without an upstream data
// provider.
//
// Point MCP_SERVER_URL at this server's /mcp endpoint when running
// cmd/weatheragent.
//
// Usage:
//
//	go run ./cmd/weathermcp           # listens on :8081
//	WEATHERMCP_ADDR=:9000 go run ./cmd/weathermcp
package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	s := server.NewMCPServer(
		"skywatch-weather",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("get_forecast",
			mcp.WithDescription("Get the current weather forecast for a US city"),
			mcp.WithString("city", mcp.Required(), mcp.Description("City name, e.g. Seattle")),
			mcp.WithString("state", mcp.Description("Two-letter US state code, e.g. WA")),
		),
		forecastHandler,
	)
	s.AddTool(
		mcp.NewTool("get_alerts",
			mcp.WithDescription("Get active weather alerts for a US state"),
			mcp.WithString("state", mcp.Required(), mcp.Description("Two-letter US state code, e.g. AK")),
		),
		alertsHandler,
	)

	addr := os.Getenv("WEATHERMCP_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	log.Printf("weathermcp listening on %s", addr)
	if err := server.NewStreamableHTTPServer(s).Start(addr); err != nil {
		log.Fatal(err)
	}
}

var conditions = []string{
	"sunny", "partly cloudy", "overcast", "light rain", "heavy rain",
	"snow showers", "fog", "windy",
}

func forecastHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city, err := req.RequireString("city")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state := req.GetString("state", "")

	// City-seeded canned data: stable across calls, varied across cities.
	seed := citySeed(city)
	condition := conditions[seed%uint32(len(conditions))]
	tempF := 20 + int(seed%70)

	place := city
	if state != "" {
		place = fmt.Sprintf("%s, %s", city, strings.ToUpper(state))
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Forecast for %s: %s, %d°F, winds %d mph.",
		place, condition, tempF, 3+int(seed%22),
	)), nil
}

func alertsHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := req.RequireString("state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "AK":
		return mcp.NewToolResultText("Winter storm warning in effect for coastal Alaska until 6 PM AKST."), nil
	case "FL":
		return mcp.NewToolResultText("Heat advisory in effect for southern Florida until 8 PM EDT."), nil
	default:
		return mcp.NewToolResultText(fmt.Sprintf("No active weather alerts for %s.", strings.ToUpper(state))), nil
	}
}

func citySeed(city string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(city))))
	return h.Sum32()
}
