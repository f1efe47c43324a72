package testutil

import (
	"bufio"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustParseTime(t *testing.T) {
	tests := []struct {
		name    string
		dateStr string
	}{
		{name: "valid RFC3339", dateStr: "2024-01-01T10:00:00Z"},
		{name: "valid RFC3339 with timezone", dateStr: "2024-01-01T10:00:00-05:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseTime(t, tt.dateStr)
			assert.False(t, result.IsZero())
		})
	}
}

func TestMustParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateStr   string
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		{name: "valid date", dateStr: "2024-07-01", wantYear: 2024, wantMonth: time.July, wantDay: 1},
		{name: "leap day", dateStr: "2024-02-29", wantYear: 2024, wantMonth: time.February, wantDay: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseDate(t, tt.dateStr)
			assert.Equal(t, tt.wantYear, result.Year())
			assert.Equal(t, tt.wantMonth, result.Month())
			assert.Equal(t, tt.wantDay, result.Day())
		})
	}
}

func TestPtr(t *testing.T) {
	n := Ptr(2)
	require.NotNil(t, n)
	assert.Equal(t, 2, *n)

	s := Ptr("PT5H")
	assert.Equal(t, "PT5H", *s)
}

func TestWriteLines(t *testing.T) {
	path := WriteLines(t, t.TempDir(), "origins.txt", "JFK", "BOS")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "JFK\nBOS\n", string(data))
}

func TestReadEvent(t *testing.T) {
	stream := ": keepalive\n\n" +
		"data: Progress: 50%\n\n" +
		"data: first\ndata: second\n\n"
	r := bufio.NewReader(strings.NewReader(stream))

	assert.Equal(t, "Progress: 50%", ReadEvent(t, r))
	assert.Equal(t, "first\nsecond", ReadEvent(t, r))
}
