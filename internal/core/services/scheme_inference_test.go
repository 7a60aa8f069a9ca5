package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vncsmyrnk/elections/internal/core/domain"
)

func TestInferSchemes(t *testing.T) {
	catalog := []domain.Scheme{{Code: "EDU", Title: "Free Textbooks"}}

	tests := []struct {
		name      string
		manifesto string
		catalog   []domain.Scheme
		explicit  []string
		want      []string
	}{
		{
			name:      "title phrase in manifesto",
			manifesto: "I will provide free textbooks to all students",
			catalog:   catalog,
			want:      []string{"EDU"},
		},
		{
			name:      "unrelated manifesto",
			manifesto: "I like sports",
			catalog:   catalog,
			want:      []string{},
		},
		{
			name:      "code mentioned with punctuation",
			manifesto: "Vote for E.D.U. reform!",
			catalog:   catalog,
			want:      []string{"EDU"},
		},
		{
			name:      "token is a substring of the title",
			manifesto: "textbook prices are too high",
			catalog:   catalog,
			want:      []string{"EDU"},
		},
		{
			name:      "short tokens are ignored for substring matching",
			manifesto: "we go ex",
			catalog:   []domain.Scheme{{Code: "TRANSIT", Title: "Express Buses"}},
			want:      []string{},
		},
		{
			name:      "title word equals a token",
			manifesto: "cheaper buses",
			catalog:   []domain.Scheme{{Code: "TRANSIT", Title: "Express Buses"}},
			want:      []string{"TRANSIT"},
		},
		{
			name:      "explicit codes are kept and trimmed",
			manifesto: "I like sports",
			catalog:   catalog,
			explicit:  []string{" HEALTH ", "HEALTH", ""},
			want:      []string{"HEALTH"},
		},
		{
			name:      "union is sorted and deduplicated",
			manifesto: "free textbooks and a new sports complex",
			catalog: []domain.Scheme{
				{Code: "SPORT", Title: "Sports Complex"},
				{Code: "EDU", Title: "Free Textbooks"},
			},
			explicit: []string{"EDU", "ART"},
			want:     []string{"ART", "EDU", "SPORT"},
		},
		{
			name:      "empty catalog",
			manifesto: "free textbooks",
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSchemes(tt.manifesto, tt.catalog, tt.explicit))
		})
	}
}

func TestInferSchemes_IdempotentSuperset(t *testing.T) {
	catalog := []domain.Scheme{
		{Code: "EDU", Title: "Free Textbooks"},
		{Code: "WATER", Title: "Clean Water"},
		{Code: "ROADS", Title: "Road Repair"},
	}
	explicit := []string{"ROADS", "CUSTOM"}
	manifesto := "Clean water for every village, and textbooks!"

	first := InferSchemes(manifesto, catalog, explicit)
	second := InferSchemes(manifesto, catalog, explicit)

	assert.Equal(t, first, second)
	assert.Subset(t, first, explicit)
	assert.Contains(t, first, "WATER")
	assert.Contains(t, first, "EDU")
}
