package news

import (
	"regexp"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var (
	separatedDatePattern = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})[-/_.](0[1-9]|1[0-2])[-/_.](0[1-9]|[12]\d|3[01])(?:\D|$)`)
	compactDatePattern   = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(0[1-9]|1[0-2])(0[1-9]|[12]\d|3[01])(?:\D|$)`)
)

// ParseDate understands the date formats seen in meta tags, JSON-LD and the
// proxy's "Published Time" line. Strings with a leading ISO date and trailing
// junk are accepted by falling back to the embedded date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return DateInText(s)
}

// DateInText finds a calendar date embedded in a URL path or filename, such
// as /2024/05/02/, 2024-06-20 or harmony-20240321.jpg. Impossible dates
// (2024-02-30) are rejected.
func DateInText(s string) (time.Time, bool) {
	for _, re := range []*regexp.Regexp{separatedDatePattern, compactDatePattern} {
		for _, m := range re.FindAllStringSubmatch(s, -1) {
			t, err := time.Parse("2006-01-02", m[1]+"-"+m[2]+"-"+m[3])
			if err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// deriveDate applies the date tiers: configured, scraped, URL or image path,
// then the epoch.
func deriveDate(configured, scraped, pageURL, image string) (time.Time, DateSource) {
	if t, ok := ParseDate(configured); ok {
		return t, DateConfigured
	}
	if t, ok := ParseDate(scraped); ok {
		return t, DateScraped
	}
	if t, ok := DateInText(pageURL); ok {
		return t, DateFromURL
	}
	if t, ok := DateInText(image); ok {
		return t, DateFromURL
	}
	return Epoch, DateUnknown
}
