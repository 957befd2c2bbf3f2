package utils //nolint:revive // utils is a common and acceptable package name

import (
	"testing"
	"time"
)

func TestParseHTTPDate(t *testing.T) {
	want := time.Date(2024, time.March, 4, 10, 15, 30, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "IMF fixdate", value: "Mon, 04 Mar 2024 10:15:30 GMT"},
		{name: "RFC 850", value: "Monday, 04-Mar-24 10:15:30 GMT"},
		{name: "asctime", value: "Mon Mar  4 10:15:30 2024"},
		{name: "surrounding spaces", value: "  Mon, 04 Mar 2024 10:15:30 GMT "},
		{name: "empty", value: "", wantErr: true},
		{name: "garbage", value: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHTTPDate(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.value)
				}
				if !got.IsZero() {
					t.Errorf("expected zero time on error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestFormatHTTPDate(t *testing.T) {
	oslo := time.FixedZone("CET", 3600)
	in := time.Date(2024, time.March, 4, 11, 15, 30, 0, oslo)

	if got := FormatHTTPDate(in); got != "Mon, 04 Mar 2024 10:15:30 GMT" {
		t.Errorf("unexpected format %q", got)
	}

	back, err := ParseHTTPDate(FormatHTTPDate(in))
	if err != nil || !back.Equal(in) {
		t.Errorf("round trip failed: %v, %v", back, err)
	}
}
