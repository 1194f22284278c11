package domainutil

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "lowercases and trims", input: "  Go.Example.COM ", want: "go.example.com"},
		{name: "strips trailing dot", input: "go.example.com.", want: "go.example.com"},
		{name: "apex domain", input: "example.com", want: "example.com"},
		{name: "multi-level public suffix", input: "links.example.co.uk", want: "links.example.co.uk"},
		{name: "empty", input: "   ", wantErr: ErrEmpty},
		{name: "ipv4", input: "192.168.1.1", wantErr: ErrIPAddress},
		{name: "ipv6", input: "[::1]", wantErr: ErrIPAddress},
		{name: "no dot", input: "localhost", wantErr: ErrInvalidFormat},
		{name: "underscore", input: "go_links.example.com", wantErr: ErrInvalidFormat},
		{name: "leading hyphen", input: "-go.example.com", wantErr: ErrInvalidFormat},
		{name: "trailing hyphen label", input: "go-.example.com", wantErr: ErrInvalidFormat},
		{name: "wildcard", input: "*.example.com", wantErr: ErrInvalidFormat},
		{name: "bare public suffix", input: "co.uk", wantErr: ErrPublicSuffix},
		{name: "brand apex", input: "lnk.day", wantErr: ErrReservedDomain},
		{name: "brand subdomain", input: "cname.lnk.day", wantErr: ErrReservedDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.input, "lnk.day")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate(%q) error = %v; want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidate_TooLong(t *testing.T) {
	label := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyzabcdefghij" // 62
	host := label + "." + label + "." + label + "." + label + ".com"
	if _, err := Validate(host, ""); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
}

func TestEffectiveApex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"go.example.com", "example.com"},
		{"a.b.example.co.uk", "example.co.uk"},
		{"Example.com.", "example.com"},
	}

	for _, tt := range tests {
		got, err := EffectiveApex(tt.input)
		if err != nil {
			t.Fatalf("EffectiveApex(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("EffectiveApex(%q) = %q; want %q", tt.input, got, tt.want)
		}
	}
}

func TestEqualHost(t *testing.T) {
	if !EqualHost("cname.lnk.day.", "CNAME.lnk.day") {
		t.Error("expected trailing dot and case to be ignored")
	}
	if EqualHost("cname.lnk.day", "cname.lnk.dev") {
		t.Error("expected different hosts to differ")
	}
}
