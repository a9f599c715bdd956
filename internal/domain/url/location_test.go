package url

import "testing"

func TestExamineLocationInput(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantURL    bool
		wantTarget string
	}{
		{name: "bare domain", input: "example.com", wantURL: true, wantTarget: "https://example.com"},
		{name: "padded domain", input: "  example.com ", wantURL: true, wantTarget: "https://example.com"},
		{name: "query", input: "go tabs", wantURL: false, wantTarget: "https://duckduckgo.com/?q=go+tabs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExamineLocationInput(tt.input, "")
			if got.IsProbablyURL != tt.wantURL {
				t.Errorf("IsProbablyURL = %v, want %v", got.IsProbablyURL, tt.wantURL)
			}
			if got.Target() != tt.wantTarget {
				t.Errorf("Target() = %q, want %q", got.Target(), tt.wantTarget)
			}
		})
	}
}

func TestExamineLocationInput_CustomTemplate(t *testing.T) {
	got := ExamineLocationInput("a b", "https://search.example/?s=%s")
	if got.Search != "https://search.example/?s=a+b" {
		t.Errorf("Search = %q", got.Search)
	}
}
