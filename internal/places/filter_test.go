package places

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

func TestFilterCheck(t *testing.T) {
	f := DefaultFilter()

	tests := []struct {
		name  string
		place model.Place
		want  string
	}{
		{"relevant", model.Place{ReviewCount: 10, Rating: 3.5, Types: []string{"point_of_interest", "bakery"}}, ""},
		{"hotel", model.Place{ReviewCount: 500, Rating: 4.8, Types: []string{"hotel", "restaurant"}}, RejectLodging},
		{"few reviews", model.Place{ReviewCount: 9, Rating: 4.5, Types: []string{"restaurant"}}, RejectReviews},
		{"low rating", model.Place{ReviewCount: 50, Rating: 3.4, Types: []string{"restaurant"}}, RejectRating},
		{"unrated", model.Place{ReviewCount: 50, Types: []string{"restaurant"}}, RejectRating},
		{"irrelevant", model.Place{ReviewCount: 50, Rating: 4.5, Types: []string{"church"}}, RejectType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Check(tt.place))
		})
	}
}

func TestFilterApply(t *testing.T) {
	f := Filter{MinReviews: 30, MinRating: 4}
	in := []model.Place{
		{ID: "a", ReviewCount: 40, Rating: 4.1, Types: []string{"florist"}},
		{ID: "b", ReviewCount: 20, Rating: 4.9, Types: []string{"florist"}},
		{ID: "c", ReviewCount: 80, Rating: 4.0, Types: []string{"dentist"}},
	}
	out := f.Apply(in)
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "c", out[1].ID)
}
