package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format specifies the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// DefaultAgentWidth is how many characters of a user agent the text report shows.
const DefaultAgentWidth = 60

// ReportOptions tweak text rendering.
type ReportOptions struct {
	Top        int
	AgentWidth int
}

// Render writes the snapshot in the requested format.
func Render(w io.Writer, s Snapshot, format Format, opts ReportOptions) error {
	switch format {
	case FormatText:
		return renderText(w, s, opts)
	case FormatJSON:
		return renderJSON(w, s)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func renderText(w io.Writer, s Snapshot, opts ReportOptions) error {
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}
	width := opts.AgentWidth
	if width <= 0 {
		width = DefaultAgentWidth
	}

	printer := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString(printer.Sprintf("Analyzing: %s (%d bytes)\n", s.File, s.SizeBytes))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Parsed %d access log lines\n", s.ParsedLines)

	writeSection(&b, fmt.Sprintf("Top %d IPs:", top), s.TopAddresses, nil)
	writeSection(&b, "Top 404 URLs:", s.Top404URLs, nil)
	writeSection(&b, "Top User Agents:", s.TopUserAgents, func(agent string) string {
		return truncate(agent, width)
	})

	b.WriteString("\nDone.\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, title string, items []Ranked, label func(string) string) {
	fmt.Fprintf(b, "\n%s\n", title)
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range items {
		key := item.Key
		if label != nil {
			key = label(key)
		}
		fmt.Fprintf(b, "  %d → %s\n", item.Count, key)
	}
}

// truncate cuts s to width characters and marks the cut with "...".
// Bytes are kept as they are; an invalid byte counts as one character.
func truncate(s string, width int) string {
	n := 0
	for i := range s {
		if n == width {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// jsonReport mirrors the snapshot for JSON output.
type jsonReport struct {
	Summary       jsonSummary `json:"summary"`
	TopIPs        rankedMap   `json:"top_ips"`
	Top404URLs    rankedMap   `json:"top_404_urls"`
	TopUserAgents rankedMap   `json:"top_user_agents"`
}

type jsonSummary struct {
	File        string `json:"file"`
	SizeBytes   int64  `json:"size_bytes"`
	ParsedLines int    `json:"parsed_lines"`
}

// rankedMap encodes as a JSON object whose keys keep rank order.
type rankedMap []Ranked

func (m rankedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, item.Key); err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, ":%d", item.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func renderJSON(w io.Writer, s Snapshot) error {
	report := jsonReport{
		Summary: jsonSummary{
			File:        s.File,
			SizeBytes:   s.SizeBytes,
			ParsedLines: s.ParsedLines,
		},
		TopIPs:        rankedMap(s.TopAddresses),
		Top404URLs:    rankedMap(s.Top404URLs),
		TopUserAgents: rankedMap(s.TopUserAgents),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}
