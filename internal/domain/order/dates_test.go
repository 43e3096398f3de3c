package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-03-07", "07-03-2025"},
		{"2025-12-31T23:10:00Z", "31-12-2025"},
		{"2024-02-29T08:00:00.123456", "29-02-2024"},
		{"2025-03-07T01:00:00+05:30", "07-03-2025"},
		{"2025-03-07 10:15:00", "07-03-2025"},
		{"2025/03/07", "07-03-2025"},
		{"", "-"},
		{"not a date", "not a date"},
		{"2025-13-45", "2025-13-45"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}
