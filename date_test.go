package fatdir

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input uint16
		want  time.Time
	}{
		{
			name:  "first possible date",
			input: 0x0021,
			want:  time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "a normal date",
			input: 20890,
			want:  time.Date(2020, 12, 26, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "last possible date",
			input: 127<<9 | 12<<5 | 31,
			want:  time.Date(2107, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "zero is no date",
			input: 0,
			want:  time.Time{},
		},
		{
			name:  "day 0 is invalid",
			input: 40<<9 | 12<<5,
			want:  time.Time{},
		},
		{
			name:  "month 0 is invalid",
			input: 40<<9 | 26,
			want:  time.Time{},
		},
		{
			name:  "month 13 rolls over",
			input: 0<<9 | 13<<5 | 1,
			want:  time.Date(1981, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDate(tt.input); !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input uint16
		want  time.Time
	}{
		{
			name:  "midnight",
			input: 0,
			want:  time.Time{},
		},
		{
			name:  "a normal time",
			input: 41936,
			want:  time.Date(1, 1, 1, 20, 30, 32, 0, time.UTC),
		},
		{
			name:  "seconds are stored divided by 2",
			input: 29,
			want:  time.Date(1, 1, 1, 0, 0, 58, 0, time.UTC),
		},
		{
			name:  "out of range values add up",
			input: 0<<11 | 60<<5 | 30,
			want:  time.Date(1, 1, 1, 1, 1, 0, 0, time.UTC),
		},
		{
			name:  "never more than one day",
			input: 0xFFFF,
			want:  time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTime(tt.input); !got.Equal(tt.want) {
				t.Errorf("ParseTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name  string
		date  uint16
		time  uint16
		tenth uint8
		want  time.Time
	}{
		{
			name: "date and time",
			date: 20890,
			time: 41936,
			want: time.Date(2020, 12, 26, 20, 30, 32, 0, time.UTC),
		},
		{
			name:  "with tenth",
			date:  20890,
			time:  41936,
			tenth: 150,
			want:  time.Date(2020, 12, 26, 20, 30, 33, int(500*time.Millisecond), time.UTC),
		},
		{
			name: "invalid date ignores the time",
			date: 0,
			time: 41936,
			want: time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDateTime(tt.date, tt.time, tt.tenth); !got.Equal(tt.want) {
				t.Errorf("ParseDateTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
