// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// ResourceUsageData represents the complete resource usage information
type ResourceUsageData struct {
	Timestamp      string         `json:"timestamp"`
	MemoryUsage    map[string]any `json:"memory_usage"`
	GCStats        map[string]any `json:"gc_stats"`
	SystemInfo     map[string]any `json:"system_info"`
	DetailedMemory map[string]any `json:"detailed_memory,omitempty"`
}

// CollectResourceUsage gathers current resource usage statistics
func CollectResourceUsage(detailed bool) *ResourceUsageData {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	gcStats := map[string]any{
		"num_gc":          memStats.NumGC,
		"num_forced_gc":   memStats.NumForcedGC,
		"gc_cpu_fraction": memStats.GCCPUFraction,
		"enable_gc":       memStats.EnableGC,
	}

	// Memory usage in MB
	memoryUsage := map[string]any{
		"heap_alloc_mb":    float64(memStats.HeapAlloc) / (1024 * 1024),
		"heap_sys_mb":      float64(memStats.HeapSys) / (1024 * 1024),
		"heap_idle_mb":     float64(memStats.HeapIdle) / (1024 * 1024),
		"heap_inuse_mb":    float64(memStats.HeapInuse) / (1024 * 1024),
		"heap_released_mb": float64(memStats.HeapReleased) / (1024 * 1024),
		"heap_objects":     memStats.HeapObjects,
		"stack_inuse_mb":   float64(memStats.StackInuse) / (1024 * 1024),
		"stack_sys_mb":     float64(memStats.StackSys) / (1024 * 1024),
	}

	systemInfo := map[string]any{
		"go_version":    runtime.Version(),
		"go_os":         runtime.GOOS,
		"go_arch":       runtime.GOARCH,
		"num_cpu":       runtime.NumCPU(),
		"num_goroutine": runtime.NumGoroutine(),
	}

	data := &ResourceUsageData{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		MemoryUsage: memoryUsage,
		GCStats:     gcStats,
		SystemInfo:  systemInfo,
	}

	if detailed {
		data.DetailedMemory = map[string]any{
			"alloc_mb":       float64(memStats.Alloc) / (1024 * 1024),
			"total_alloc_mb": float64(memStats.TotalAlloc) / (1024 * 1024),
			"sys_mb":         float64(memStats.Sys) / (1024 * 1024),
			"lookups":        memStats.Lookups,
			"mallocs":        memStats.Mallocs,
			"frees":          memStats.Frees,
			"mspan_inuse_mb": float64(memStats.MSpanInuse) / (1024 * 1024),
			"mcache_inuse_b": memStats.MCacheInuse,
		}
	}

	return data
}

// formatResourceUsageMarkdown renders resource usage as markdown tables.
func formatResourceUsageMarkdown(data *ResourceUsageData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Resource Usage (%s)\n\n", data.Timestamp)

	section := func(title string, values map[string]any) {
		fmt.Fprintf(&b, "## %s\n\n", title)
		table := tablewriter.NewTable(&b,
			tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
		)
		table.Header([]string{"Metric", "Value"})

		var rows [][]string
		for k, v := range values {
			if f, ok := v.(float64); ok {
				rows = append(rows, []string{k, fmt.Sprintf("%.2f", f)})
			} else {
				rows = append(rows, []string{k, fmt.Sprintf("%v", v)})
			}
		}
		table.Bulk(rows)
		table.Render()
		b.WriteString("\n")
	}

	section("Memory Usage", data.MemoryUsage)
	section("GC Stats", data.GCStats)
	section("System Info", data.SystemInfo)
	if data.DetailedMemory != nil {
		section("Detailed Memory", data.DetailedMemory)
	}

	return b.String()
}

// handleGetResourceUsage reports server resource usage statistics.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing detailed and format options
//
// Returns:
//   - The tool execution result containing usage statistics as JSON or markdown
//   - An error if JSON marshaling fails
func handleGetResourceUsage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	detailed := request.GetBool("detailed", false)
	format := request.GetString("format", "json")

	data := CollectResourceUsage(detailed)

	if format == "markdown" {
		return mcp.NewToolResultText(formatResourceUsageMarkdown(data)), nil
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource usage: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
