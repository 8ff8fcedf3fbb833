package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-01", want: New(2025, time.July, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "2025-07-01T00:00:00", want: New(2025, time.July, 1)},
		{in: "2025-07-01T12:30:00Z", want: New(2025, time.July, 1)},
		{in: "01/07/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseOptional(t *testing.T) {
	d, err := ParseOptional("")
	if err != nil {
		t.Fatalf("ParseOptional(\"\") unexpected error: %v", err)
	}
	if !d.IsZero() {
		t.Errorf("ParseOptional(\"\") = %v, want zero date", d)
	}
	if d.String() != "" {
		t.Errorf("zero Date String() = %q, want empty", d.String())
	}
}

func TestNewNormalizes(t *testing.T) {
	got := New(2025, time.January, 32)
	if want := New(2025, time.February, 1); got != want {
		t.Errorf("New(2025, 1, 32) = %v, want %v", got, want)
	}
	if got := New(2025, time.March, 1).Add(-1); got != New(2025, time.February, 28) {
		t.Errorf("Add(-1) = %v, want 2025-02-28", got)
	}
}

func TestDateJSON(t *testing.T) {
	var dates []Date
	if err := json.Unmarshal([]byte(`["2025-10-03","2025-10-02T00:00:00"]`), &dates); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error: %v", err)
	}
	want := []Date{New(2025, time.October, 3), New(2025, time.October, 2)}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d", len(dates), len(want))
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %v, want %v", i, dates[i], want[i])
		}
	}

	data, err := json.Marshal(want[0])
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	if string(data) != `"2025-10-03"` {
		t.Errorf("json.Marshal() = %s, want \"2025-10-03\"", data)
	}
}

func TestBeforeAfter(t *testing.T) {
	a, b := New(2025, 1, 1), New(2025, 1, 2)
	if !a.Before(b) || b.Before(a) {
		t.Errorf("Before() inconsistent for %v and %v", a, b)
	}
	if !b.After(a) || a.After(b) {
		t.Errorf("After() inconsistent for %v and %v", a, b)
	}
}
