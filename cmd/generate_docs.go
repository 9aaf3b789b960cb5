package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/meeting-mcp/internal/baas"
	"github.com/teemow/meeting-mcp/internal/links"
	"github.com/teemow/meeting-mcp/internal/recent"
	"github.com/teemow/meeting-mcp/internal/server"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate a markdown reference of every MCP tool the server can register.
The reference is built from the live tool definitions, so it always matches
the arguments the server accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(cmd.OutOrStdout(), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// runGenerateDocs writes the reference to outputFile, or to w when no file is given.
func runGenerateDocs(w io.Writer, outputFile string) error {
	// Nothing here calls the API, a placeholder key is enough
	sc, err := server.NewServerContext(context.Background(), server.Dependencies{
		Client:  baas.NewClient("", baas.StaticKey("docs")),
		Tracker: recent.NewTracker(nil, recent.BackendNone, nil, nil),
		Links:   links.NewBuilder(""),
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = sc.Shutdown()
	}()

	full := newMCPServer()
	if err := registerAllTools(full, sc, false); err != nil {
		return err
	}
	readOnly := newMCPServer()
	if err := registerAllTools(readOnly, sc, true); err != nil {
		return err
	}
	readOnlyTools := readOnly.ListTools()

	var tools []mcp.Tool
	writeTools := make(map[string]bool)
	for name, st := range full.ListTools() {
		tools = append(tools, st.Tool)
		if _, ok := readOnlyTools[name]; !ok {
			writeTools[name] = true
		}
	}

	markdown := generateToolsMarkdown(tools, writeTools)
	if outputFile == "" {
		_, err := io.WriteString(w, markdown)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

// generateToolsMarkdown renders tools grouped by category. Tools in writeTools
// are marked as needing --yolo.
func generateToolsMarkdown(tools []mcp.Tool, writeTools map[string]bool) string {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		category := getCategoryFromToolName(tool.Name)
		byCategory[category] = append(byCategory[category], tool)
	}
	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("Tools exposed by `meeting-mcp serve`. Generated from the tool definitions with `meeting-mcp generate-docs`.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categories {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", category, strings.ToLower(strings.ReplaceAll(category, " ", "-")))
	}

	sb.WriteString("\n## Read-Only Mode\n\n")
	sb.WriteString("Tools marked **(write)** are only registered when the server runs with `--yolo`.\n")
	sb.WriteString("Tools taking a `bot_id` fall back to the last bot used in the session when it is omitted.\n\n")

	for _, category := range categories {
		group := byCategory[category]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })

		fmt.Fprintf(&sb, "## %s\n\n", category)
		for _, tool := range group {
			writeToolMarkdown(&sb, tool, writeTools[tool.Name])
		}
	}
	return sb.String()
}

// toolCategories maps tool names to their documentation section.
var toolCategories = map[string]string{
	"join_meeting":            "Bot Tools",
	"leave_meeting":           "Bot Tools",
	"get_meeting_data":        "Bot Tools",
	"get_transcript":          "Bot Tools",
	"delete_meeting_data":     "Bot Tools",
	"retranscribe_bot":        "Bot Tools",
	"list_bots_with_metadata": "Bot Tools",
	"list_recent_bots":        "Bot Tools",
	"find_key_moments":        "Analysis Tools",
	"intelligent_search":      "Analysis Tools",
	"search_transcript":       "Analysis Tools",
	"share_meeting_segments":  "Link Tools",
	"share_recording":         "Link Tools",
}

func getCategoryFromToolName(name string) string {
	if category, ok := toolCategories[name]; ok {
		return category
	}
	if strings.Contains(name, "calendar") || strings.Contains(name, "event") {
		return "Calendar Tools"
	}
	return "Other"
}

func writeToolMarkdown(sb *strings.Builder, tool mcp.Tool, write bool) {
	heading := tool.Name
	if write {
		heading += " (write)"
	}
	fmt.Fprintf(sb, "### %s\n\n", heading)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString("**Arguments:**\n")
	for _, name := range names {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}
		fmt.Fprintf(sb, "- `%s` (%s): %s\n", name, presence, propertySummary(prop))
	}
	sb.WriteString("\n")
}

// propertySummary is the description of a schema property plus its allowed values.
func propertySummary(prop map[string]any) string {
	summary, _ := prop["description"].(string)
	if summary == "" {
		typ, _ := prop["type"].(string)
		if typ == "" {
			typ = "any"
		}
		summary = typ + " parameter"
	}
	if values, ok := prop["enum"].([]string); ok && len(values) > 0 {
		summary += fmt.Sprintf(" (one of: %s)", strings.Join(values, ", "))
	}
	return summary
}
