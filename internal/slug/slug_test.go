package slug

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation collapses", "Hello, World!!", "hello-world"},
		{"leading/trailing spaces", "  Spaced Out  ", "spaced-out"},
		{"already a slug", "already-a-slug", "already-a-slug"},
		{"mixed case with numbers", "Post 42: The Answer", "post-42-the-answer"},
		{"repeated separators collapse", "a---b__c", "a-b-c"},
		{"empty string", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid slug", "hello-world-42", true},
		{"empty", "", false},
		{"uppercase rejected", "Hello-World", false},
		{"space rejected", "hello world", false},
		{"underscore rejected", "hello_world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.in); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
