package hostlist

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"hostname1.iml.com", []string{"hostname1.iml.com"}},
		{
			"hostname1.iml.com,hostname2.iml.com",
			[]string{"hostname1.iml.com", "hostname2.iml.com"},
		},
		{
			"hostname[1-4].iml.com",
			[]string{"hostname1.iml.com", "hostname2.iml.com", "hostname3.iml.com", "hostname4.iml.com"},
		},
		{
			"hostname[1,3].iml.com",
			[]string{"hostname1.iml.com", "hostname3.iml.com"},
		},
		{
			"hostname[1-3,5].iml.com",
			[]string{"hostname1.iml.com", "hostname2.iml.com", "hostname3.iml.com", "hostname5.iml.com"},
		},
		{
			"hostname[1,2].iml.com,hostname[3,4].iml.com",
			[]string{"hostname1.iml.com", "hostname2.iml.com", "hostname3.iml.com", "hostname4.iml.com"},
		},
		{
			"hostname[01-10]",
			[]string{
				"hostname01", "hostname02", "hostname03", "hostname04", "hostname05",
				"hostname06", "hostname07", "hostname08", "hostname09", "hostname10",
			},
		},
		{"hostname[09-11]", []string{"hostname09", "hostname10", "hostname11"}},
		{"hostname[009-011]", []string{"hostname009", "hostname010", "hostname011"}},
		{"hostname[000-002]", []string{"hostname000", "hostname001", "hostname002"}},
		{"hostname[09-010]", []string{"hostname09", "hostname010"}},
		{"hostname[0010-0011]", []string{"hostname0010", "hostname0011"}},
		{"hostname[7-5]", []string{"hostname7", "hostname6", "hostname5"}},
		{"hostname[010-09]", []string{"hostname010", "hostname09"}},
		{"hostname[3,2,1]", []string{"hostname3", "hostname2", "hostname1"}},
		{"hostname[07,5]", []string{"hostname07", "hostname5"}},
		{"hostname[09,1,007]", []string{"hostname09", "hostname1", "hostname007"}},
		{
			"rack[0-3]-eth0.iml.com",
			[]string{"rack0-eth0.iml.com", "rack1-eth0.iml.com", "rack2-eth0.iml.com", "rack3-eth0.iml.com"},
		},
		{
			"hostname[1,2]-[3,4].iml.com",
			[]string{
				"hostname1-3.iml.com", "hostname1-4.iml.com",
				"hostname2-3.iml.com", "hostname2-4.iml.com",
			},
		},
		{
			"hostname[6,7]-[9-11].iml.com",
			[]string{
				"hostname6-9.iml.com", "hostname6-10.iml.com", "hostname6-11.iml.com",
				"hostname7-9.iml.com", "hostname7-10.iml.com", "hostname7-11.iml.com",
			},
		},
		{
			"a[1,2][3,4]",
			[]string{"a13", "a14", "a23", "a24"},
		},
		{"[1-3]", []string{"1", "2", "3"}},
		{"host[5-5]", []string{"host5"}},
		{"host[0-0]", []string{"host0"}},
		{"host 1", []string{"host1"}},
		{" host[1-2]", []string{"host1", "host2"}},
		{"host[1 - 3]", []string{"host1", "host2", "host3"}},
		{"host[ 1, 3 ]", []string{"host1", "host3"}},
		{"a, b", []string{"a", "b"}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Expand(tt.input)
			if err != nil {
				t.Fatalf("expand error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("hosts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandDeduplicates(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		// overlapping ranges keep the first occurrence only
		{"host[1-3],host[2-4]", []string{"host1", "host2", "host3", "host4"}},
		{"a,a,b", []string{"a", "b"}},
		{"host[3-1],host[1-3]", []string{"host3", "host2", "host1"}},
		{"web[1,1,1]", []string{"web1"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Expand(tt.input)
			if err != nil {
				t.Fatalf("expand error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("hosts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpandError(t *testing.T) {
	_, err := Expand("host[9-0011]")
	if err == nil {
		t.Fatal("expected error, got none")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if perr.Offset != 5 {
		t.Errorf("got offset %d, want 5", perr.Offset)
	}
}

func TestExpandLimit(t *testing.T) {
	if _, err := ExpandLimit("host[1-10]", 5); !errors.Is(err, ErrTooManyResults) {
		t.Errorf("got %v, want ErrTooManyResults", err)
	}

	hosts, err := ExpandLimit("host[1-10]", 10)
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}
	if len(hosts) != 10 {
		t.Errorf("got %d hosts, want 10", len(hosts))
	}

	// an oversized range must fail before materializing anything
	if _, err := ExpandLimit("host[0-18446744073709551615]", 1000000); !errors.Is(err, ErrTooManyResults) {
		t.Errorf("got %v, want ErrTooManyResults", err)
	}

	// deduplication happens after the limit check
	if _, err := ExpandLimit("a,a,a", 2); !errors.Is(err, ErrTooManyResults) {
		t.Errorf("got %v, want ErrTooManyResults", err)
	}

	if _, err := ExpandLimit("host[1-3]", 0); err != nil {
		t.Errorf("zero limit should not cap results: %v", err)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
	}{
		{"host", 1},
		{"a[1-3],b", 4},
		{"a[1,2][3,4]", 4},
		{"a[1-3],a[1-3]", 6},
		{"host[0-18446744073709551615]", math.MaxUint64},
		{"a[0-4294967295][0-4294967295]", math.MaxUint64},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Count(tt.input)
			if err != nil {
				t.Fatalf("count error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := Count("host["); err == nil {
		t.Error("expected error for malformed input, got none")
	}
}
