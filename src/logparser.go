package main

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry represents a single parsed access log line.
type Entry struct {
	ClientAddr string
	Request    string
	Method     string
	Path       string
	Status     int
	UserAgent  string
}

const unknownAgent = "Unknown"

var (
	// Loose combined log format: client, [time], "request", status, trailing "agent".
	logPattern = regexp.MustCompile(`^(\S+).*?\[.*?\].*?"([^"]+)".*?(\d{3}).*?"([^"]+)"$`)

	// nginx error log lines start with "2025/01/02 ...".
	noisePattern = regexp.MustCompile(`^\d{4}/`)
)

// ParseLine attempts to parse a single trimmed access log line.
// Lines that do not look like access log records are reported as not ok.
func ParseLine(line string) (Entry, bool) {
	if line == "" || noisePattern.MatchString(line) {
		return Entry{}, false
	}

	// Table keys must match what the JSON report emits for invalid UTF-8.
	line = strings.ToValidUTF8(line, "\uFFFD")

	matches := logPattern.FindStringSubmatch(line)
	if matches == nil {
		return Entry{}, false
	}

	status, err := strconv.Atoi(matches[3])
	if err != nil {
		return Entry{}, false
	}

	method, path := splitRequest(matches[2])

	agent := matches[4]
	if agent == "-" {
		agent = unknownAgent
	}

	return Entry{
		ClientAddr: matches[1],
		Request:    matches[2],
		Method:     method,
		Path:       path,
		Status:     status,
		UserAgent:  agent,
	}, true
}

// splitRequest returns the method and path tokens of "GET /path HTTP/1.1".
// A request without a second token yields an empty path.
func splitRequest(request string) (string, string) {
	parts := strings.Split(request, " ")
	method := parts[0]
	if len(parts) < 2 {
		return method, ""
	}
	return method, parts[1]
}
