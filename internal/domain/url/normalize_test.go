package url

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "https scheme unchanged", input: "https://example.com", want: "https://example.com"},
		{name: "internal scheme unchanged", input: "tabshell://history/", want: "tabshell://history/"},
		{name: "drive scheme unchanged", input: "hyper://abc/", want: "hyper://abc/"},
		{name: "about scheme unchanged", input: "about:blank", want: "about:blank"},
		{name: "domain gets https", input: "example.com", want: "https://example.com"},
		{name: "domain with path gets https", input: "example.com/path", want: "https://example.com/path"},
		{name: "localhost gets http", input: "localhost:8080/x", want: "http://localhost:8080/x"},
		{name: "search query unchanged", input: "hello world", want: "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLooksLikeURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"github.com", true},
		{"localhost", true},
		{"hyper://abc/", true},
		{"golang tutorial", false},
		{"word", false},
		{"a.b c", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LooksLikeURL(tt.input); got != tt.want {
				t.Errorf("LooksLikeURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.youtube.com/watch", "youtube.com"},
		{"http://localhost:3000/", "localhost:3000"},
		{"about:blank", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExtractDomain(tt.input); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReplaceScheme(t *testing.T) {
	if got := ReplaceScheme("https://example.com/a", "hyper"); got != "hyper://example.com/a" {
		t.Errorf("ReplaceScheme = %q", got)
	}
	if got := ReplaceScheme("about:blank", "hyper"); got != "about:blank" {
		t.Errorf("ReplaceScheme = %q", got)
	}
}
