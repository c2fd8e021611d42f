package news

import (
	"strconv"
	"strings"

	"burim-estate/internal/models"
)

// Markers of the generation response grammar:
//
//	제목: <title>
//	분류: STRONG | WEAK
//	연관도: <1-10>
//	내용:
//	<markdown body>
//
// or a single line containing a reject marker.
const (
	markerTitle          = "제목:"
	markerClassification = "분류:"
	markerScore          = "연관도:"
	markerBody           = "내용:"

	defaultScore = 5
)

var rejectMarkers = []string{"REJECT", "기준 미달"}

var headerMarkers = []string{markerTitle, markerClassification, markerScore, markerBody}

// Response is a parsed generation response
type Response struct {
	Rejected bool
	Title    string
	Grade    models.NewsGrade
	Score    int
	Body     string
}

// ParseResponse parses raw generation output. A reject marker anywhere wins
// over structured fields. fallbackTitle is used when no title line is present.
func ParseResponse(raw, fallbackTitle string) Response {
	for _, m := range rejectMarkers {
		if strings.Contains(raw, m) {
			return Response{Rejected: true}
		}
	}

	resp := Response{
		Title: strings.TrimSpace(fallbackTitle),
		Score: defaultScore,
	}

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	bodyStart := -1
	bodyFirstLine := ""
	var titleSeen, scoreSeen bool

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, markerTitle):
			if titleSeen {
				continue
			}
			titleSeen = true
			if title := cleanValue(strings.TrimPrefix(trimmed, markerTitle)); title != "" {
				resp.Title = title
			}
		case strings.HasPrefix(trimmed, markerClassification):
			if resp.Grade == "" {
				resp.Grade = parseGrade(strings.TrimPrefix(trimmed, markerClassification))
			}
		case strings.HasPrefix(trimmed, markerScore):
			if !scoreSeen {
				scoreSeen = true
				resp.Score = parseScore(strings.TrimPrefix(trimmed, markerScore))
			}
		case strings.HasPrefix(trimmed, markerBody):
			if bodyStart < 0 {
				bodyStart = i + 1
				bodyFirstLine = strings.TrimSpace(strings.TrimPrefix(trimmed, markerBody))
			}
		}
	}

	var bodyLines []string
	if bodyStart >= 0 {
		if bodyFirstLine != "" {
			bodyLines = append(bodyLines, bodyFirstLine)
		}
		bodyLines = append(bodyLines, lines[bodyStart:]...)
	} else {
		bodyLines = lines
	}
	resp.Body = stripHeaderLines(bodyLines)

	return resp
}

// cleanValue trims whitespace and surrounding brackets from a header value
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.TrimSpace(s)
}

func parseGrade(s string) models.NewsGrade {
	switch strings.ToUpper(cleanValue(s)) {
	case string(models.NewsGradeStrong):
		return models.NewsGradeStrong
	case string(models.NewsGradeWeak):
		return models.NewsGradeWeak
	}
	return ""
}

// parseScore keeps only the digits; anything unparseable or outside 1-10 is 5
func parseScore(s string) int {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n < 1 || n > 10 {
		return defaultScore
	}
	return n
}

// stripHeaderLines drops header lines that leaked into the body
func stripHeaderLines(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isHeaderLine(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isHeaderLine(trimmed string) bool {
	for _, m := range headerMarkers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}
