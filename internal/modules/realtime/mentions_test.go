package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int64
	}{
		{
			name: "single mention",
			text: "ping @[Alice](7) please review",
			want: []int64{7},
		},
		{
			name: "multiple mentions keep first-seen order",
			text: "@[Bob](3) and @[Alice](7) and @[Carol](5)",
			want: []int64{3, 7, 5},
		},
		{
			name: "duplicate ids collapse",
			text: "@[Alice](7) again @[Alice the second](7)",
			want: []int64{7},
		},
		{
			name: "name with spaces and punctuation",
			text: "cc @[Dr. Jane O'Neil](42)",
			want: []int64{42},
		},
		{
			name: "plain at-sign is not a mention",
			text: "email me at alice@example.com",
			want: nil,
		},
		{
			name: "non-numeric id ignored",
			text: "@[Alice](abc)",
			want: nil,
		},
		{
			name: "no mentions",
			text: "looks good to me",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMentions(tt.text))
		})
	}
}
