package news

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{name: "rfc3339", input: "2024-06-20T08:30:00Z", want: time.Date(2024, 6, 20, 8, 30, 0, 0, time.UTC), ok: true},
		{name: "rfc3339 offset", input: "2024-06-20T08:30:00+10:00", want: time.Date(2024, 6, 19, 22, 30, 0, 0, time.UTC), ok: true},
		{name: "plain date", input: "2023-11-02", want: day(2023, 11, 2), ok: true},
		{name: "rfc1123", input: "Wed, 10 Jul 2024 09:00:00 GMT", want: time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC), ok: true},
		{name: "long form", input: "March 21, 2024", want: day(2024, 3, 21), ok: true},
		{name: "embedded", input: "2024-05-02 (updated)", want: day(2024, 5, 2), ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "last Tuesday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestDateInText(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{input: "https://www.agedcarenews.com.au/2024/05/02/culturally-diverse-seniors/", want: day(2024, 5, 2), ok: true},
		{input: "https://www.abc.net.au/news/2024-06-20/refugee-week/103987654", want: day(2024, 6, 20), ok: true},
		{input: "/static/img/news/harmony-20240321.jpg", want: day(2024, 3, 21), ok: true},
		{input: "https://www.health.nsw.gov.au/news/Pages/20240710_00.aspx", want: day(2024, 7, 10), ok: true},
		{input: "photo_2022_12_01.png", want: day(2022, 12, 1), ok: true},
		{input: "https://example.com/2024-02-30/impossible", ok: false},
		{input: "https://example.com/article/1202405021", ok: false},
		{input: "https://www.youtube.com/watch?v=Bw9p3kA1Xyz", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := DateInText(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDeriveDateTiers(t *testing.T) {
	got, src := deriveDate("2024-01-05", "2023-01-01", "https://x.org/2022/01/01/a", "")
	assert.Equal(t, day(2024, 1, 5), got)
	assert.Equal(t, DateConfigured, src)

	got, src = deriveDate("", "2023-01-01", "https://x.org/2022/01/01/a", "")
	assert.Equal(t, day(2023, 1, 1), got)
	assert.Equal(t, DateScraped, src)

	got, src = deriveDate("", "not a date", "https://x.org/2022/01/01/a", "")
	assert.Equal(t, day(2022, 1, 1), got)
	assert.Equal(t, DateFromURL, src)

	got, src = deriveDate("", "", "https://x.org/a", "/img/event-20210704.jpg")
	assert.Equal(t, day(2021, 7, 4), got)
	assert.Equal(t, DateFromURL, src)

	got, src = deriveDate("", "", "https://x.org/a", "")
	assert.Equal(t, Epoch, got)
	assert.Equal(t, DateUnknown, src)
	assert.Equal(t, "1970-01-01", got.Format("2006-01-02"))
}
