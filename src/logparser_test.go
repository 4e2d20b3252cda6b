package main

import (
	"testing"
	"unicode/utf8"
)

func TestParseLineCombinedFormat(t *testing.T) {
	line := "35.191.50.44 - - [19/Oct/2025:00:00:07 +0200] \"GET /files/colors/5405.jpg HTTP/1.1\" 304 0 \"https://www.wordans.at/\" \"Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/28.0 Chrome/130.0.0.0 Mobile Safari/537.36\""

	entry, ok := ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine rejected a combined format line")
	}

	if entry.ClientAddr != "35.191.50.44" {
		t.Fatalf("unexpected client addr: %s", entry.ClientAddr)
	}
	if entry.Method != "GET" {
		t.Fatalf("unexpected method: %s", entry.Method)
	}
	if entry.Path != "/files/colors/5405.jpg" {
		t.Fatalf("unexpected path: %s", entry.Path)
	}
	if entry.Status != 304 {
		t.Fatalf("unexpected status: %d", entry.Status)
	}
	want := "Mozilla/5.0 (Linux; Android 10; K) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/28.0 Chrome/130.0.0.0 Mobile Safari/537.36"
	if entry.UserAgent != want {
		t.Fatalf("unexpected user agent: %q", entry.UserAgent)
	}
}

func TestParseLineShortForm(t *testing.T) {
	line := `10.0.0.1 - - [01/Jan/2025:00:00:00] "GET /foo HTTP/1.1" 200 "-" "Mozilla/5.0"`

	entry, ok := ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine rejected %q", line)
	}
	if entry.ClientAddr != "10.0.0.1" || entry.Path != "/foo" || entry.Status != 200 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.UserAgent != "Mozilla/5.0" {
		t.Fatalf("expected trailing quoted field as user agent, got %q", entry.UserAgent)
	}
}

func TestParseLineUnknownUserAgent(t *testing.T) {
	line := `192.0.2.7 - - [19/Oct/2025:00:01:00 +0000] "GET / HTTP/1.1" 200 512 "-" "-"`

	entry, ok := ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine rejected %q", line)
	}
	if entry.UserAgent != "Unknown" {
		t.Fatalf("expected placeholder agent to become Unknown, got %q", entry.UserAgent)
	}
}

func TestParseLineRequestWithoutPath(t *testing.T) {
	line := `192.0.2.8 - - [19/Oct/2025:00:01:00 +0000] "PRI" 400 0 "-" "scanner"`

	entry, ok := ParseLine(line)
	if !ok {
		t.Fatalf("ParseLine rejected %q", line)
	}
	if entry.Method != "PRI" {
		t.Fatalf("unexpected method: %q", entry.Method)
	}
	if entry.Path != "" {
		t.Fatalf("expected empty path, got %q", entry.Path)
	}
}

func TestParseLineRejects(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"free text", "invalid log line"},
		{"nginx error log", `2025/10/19 00:00:07 [error] 1234#0: *1 open() "/var/www/x" failed (2: No such file or directory), client: 1.2.3.4, request: "GET /x HTTP/1.1", host: "example.com"`},
		{"year prefix with access shape", `2025/ - - [01/Jan/2025:00:00:00] "GET /foo HTTP/1.1" 200 "-" "Mozilla/5.0"`},
		{"no timestamp", `10.0.0.1 "GET / HTTP/1.1" 200 "-" "curl/8.0"`},
		{"no status", `10.0.0.1 - - [01/Jan/2025:00:00:00] "GET / HTTP/1.1" "curl/8.0"`},
		{"agent not last", `10.0.0.1 - - [01/Jan/2025:00:00:00] "GET / HTTP/1.1" 200 "curl/8.0" trailing`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if entry, ok := ParseLine(tt.line); ok {
				t.Fatalf("expected %q to be rejected, got %+v", tt.line, entry)
			}
		})
	}
}

func TestSplitRequest(t *testing.T) {
	tests := []struct {
		request    string
		wantMethod string
		wantPath   string
	}{
		{"GET /a HTTP/1.1", "GET", "/a"},
		{"POST /login", "POST", "/login"},
		{"GET", "GET", ""},
		{"GET  /double-space HTTP/1.1", "GET", ""},
	}

	for _, tt := range tests {
		method, path := splitRequest(tt.request)
		if method != tt.wantMethod || path != tt.wantPath {
			t.Errorf("splitRequest(%q) = %q, %q; want %q, %q", tt.request, method, path, tt.wantMethod, tt.wantPath)
		}
	}
}

func TestParseLineReplacesInvalidUTF8(t *testing.T) {
	line := "10.0.0.1 - - [01/Jan/2025:00:00:00] \"GET /a\xff HTTP/1.1\" 200 \"-\" \"bot\xfe\""

	entry, ok := ParseLine(line)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if !utf8.ValidString(entry.UserAgent) || !utf8.ValidString(entry.Path) {
		t.Fatalf("expected valid UTF-8, got agent %q path %q", entry.UserAgent, entry.Path)
	}
	if entry.UserAgent != "bot\uFFFD" || entry.Path != "/a\uFFFD" {
		t.Fatalf("unexpected replacement: agent %q path %q", entry.UserAgent, entry.Path)
	}
}
