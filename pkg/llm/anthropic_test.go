package llm

import (
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON unchanged",
			input: `{"paragraph":"test"}`,
			want:  `{"paragraph":"test"}`,
		},
		{
			name:  "strips json fenced block",
			input: "```json\n{\"paragraph\":\"test\"}\n```",
			want:  `{"paragraph":"test"}`,
		},
		{
			name:  "strips plain fenced block",
			input: "```\n{\"paragraph\":\"test\"}\n```",
			want:  `{"paragraph":"test"}`,
		},
		{
			name:  "drops surrounding prose",
			input: "Here is the digest:\n{\"paragraph\":\"test\"}\nHope that helps!",
			want:  `{"paragraph":"test"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanJSONResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatReviewsPrompt(t *testing.T) {
	reviews := []ReviewInput{
		{PlaceName: "Taj Resort", Type: "hotel", Text: "Great pool"},
		{PlaceName: "Goa", Type: "restaurant", Text: "Amazing thalis"},
	}

	got := formatReviewsPrompt("Goa", "best hotel with pool", reviews)

	assert.Equal(t, true, strings.HasPrefix(got, "Destination: Goa\nQuestion: best hotel with pool\n"))
	assert.Equal(t, true, strings.Contains(got, "1. [hotel] Taj Resort: Great pool"))
	assert.Equal(t, true, strings.Contains(got, "2. [restaurant] Goa: Amazing thalis"))
}
