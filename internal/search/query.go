package search

import (
	"regexp"
	"strconv"
	"strings"
)

// aroundWindow is how far "around X" reaches on either side, in seconds.
const aroundWindow = 120.0

// timeExpr matches "5", "5 minutes", "minute 5" and "12:30".
const timeExpr = `(?:minute\s+)?(\d+(?::[0-5]\d)?)(?:\s*(?:minutes?|mins?))?`

var (
	betweenRe = regexp.MustCompile(`(?i)\bbetween\s+` + timeExpr + `\s+and\s+` + timeExpr)
	afterRe   = regexp.MustCompile(`(?i)\bafter\s+` + timeExpr)
	beforeRe  = regexp.MustCompile(`(?i)\bbefore\s+` + timeExpr)
	aroundRe  = regexp.MustCompile(`(?i)\baround\s+` + timeExpr)

	speakerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwhat\s+did\s+(\w+(?:\s+\w+)?)\s+say(?:\s+about)?`),
		regexp.MustCompile(`(?i)\bcomments?\s+(?:by|from)\s+(\w+)`),
		regexp.MustCompile(`(?i)\b(\w+)'s\s+(?:thoughts|opinion|comments|view|input|take)(?:\s+(?:on|about))?`),
		regexp.MustCompile(`(?i)\bwhen\s+(\w+)\s+(?:spoke|talked|said|mentioned)(?:\s+about)?`),
	}

	spaceRe = regexp.MustCompile(`\s+`)
)

// ParsedQuery is what the query text implies on its own.
type ParsedQuery struct {
	Speaker string
	Start   *float64
	End     *float64
	// Terms is the query with time and speaker phrases removed. It falls back
	// to the original text when nothing else remains.
	Terms string
}

// ParseQuery pulls a time range and a speaker out of free text.
func ParseQuery(text string) ParsedQuery {
	var p ParsedQuery
	rest := text

	if m := betweenRe.FindStringSubmatch(rest); m != nil {
		start, end := parseClock(m[1]), parseClock(m[2])
		if end < start {
			start, end = end, start
		}
		p.Start, p.End = &start, &end
		rest = strings.Replace(rest, m[0], " ", 1)
	} else {
		if m := afterRe.FindStringSubmatch(rest); m != nil {
			v := parseClock(m[1])
			p.Start = &v
			rest = strings.Replace(rest, m[0], " ", 1)
		}
		if m := beforeRe.FindStringSubmatch(rest); m != nil {
			v := parseClock(m[1])
			p.End = &v
			rest = strings.Replace(rest, m[0], " ", 1)
		}
		if p.Start == nil && p.End == nil {
			if m := aroundRe.FindStringSubmatch(rest); m != nil {
				center := parseClock(m[1])
				start, end := max(0, center-aroundWindow), center+aroundWindow
				p.Start, p.End = &start, &end
				rest = strings.Replace(rest, m[0], " ", 1)
			}
		}
	}

	for _, re := range speakerPatterns {
		m := re.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		p.Speaker = strings.TrimSpace(m[1])
		rest = strings.Replace(rest, m[0], " ", 1)
		break
	}

	rest = strings.Trim(spaceRe.ReplaceAllString(rest, " "), " ?!.,")
	if rest == "" {
		rest = strings.TrimSpace(text)
	}
	p.Terms = rest
	return p
}

// parseClock reads "M:SS" or a bare number of minutes as seconds.
func parseClock(s string) float64 {
	if mins, secs, ok := strings.Cut(s, ":"); ok {
		m, _ := strconv.Atoi(mins)
		sec, _ := strconv.Atoi(secs)
		return float64(m*60 + sec)
	}
	m, _ := strconv.Atoi(s)
	return float64(m * 60)
}

// Words splits terms into distinct lowercase words longer than two letters.
func Words(terms string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.Fields(strings.ToLower(terms)) {
		if len(w) <= 2 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
