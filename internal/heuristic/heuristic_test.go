package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

func TestScore(t *testing.T) {
	t.Parallel()

	problems := &model.WebsiteSignals{Exists: true, Issues: []string{"Meta description manquante"}}
	clean := &model.WebsiteSignals{Exists: true}

	tests := []struct {
		name    string
		entity  model.BusinessEntity
		score   int
		size    model.Size
		reasons string
		skip    bool
	}{
		{
			name:    "busy, well rated, no website",
			entity:  model.BusinessEntity{Name: "Chez Paul", ReviewCount: 250, Rating: 4.6},
			score:   8,
			size:    model.SizeLarge,
			reasons: "Forte activité (100+ avis), Bonne réputation, Pas de site = grosse opportunité",
		},
		{
			name:    "medium activity with problems",
			entity:  model.BusinessEntity{Name: "Salon Léa", ReviewCount: 60, Rating: 4.0, HasWebsite: true, WebsiteSignals: problems},
			score:   6,
			size:    model.SizeMedium,
			reasons: "Activité correcte, Bonne réputation, Site à améliorer",
		},
		{
			name:    "clean website",
			entity:  model.BusinessEntity{Name: "Cabinet", ReviewCount: 150, Rating: 4.8, HasWebsite: true, WebsiteSignals: clean},
			score:   5,
			size:    model.SizeMedium,
			reasons: "Forte activité (100+ avis), Bonne réputation",
			skip:    true,
		},
		{
			name:   "nothing",
			entity: model.BusinessEntity{Name: "Petit", ReviewCount: 5, Rating: 3.2, HasWebsite: true},
			score:  0,
			size:   model.SizeSmall,
			skip:   true,
		},
		{
			name:    "unanalyzed website",
			entity:  model.BusinessEntity{Name: "Boutique", ReviewCount: 31, Rating: 3.9, HasWebsite: true},
			score:   2,
			size:    model.SizeSmall,
			reasons: "Activité correcte",
			skip:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Score(tt.entity)
			assert.Equal(t, tt.score, res.Score)
			assert.Equal(t, tt.size, res.EstimatedSize)
			assert.Equal(t, tt.reasons, res.Reasoning)
			assert.Equal(t, tt.skip, res.Skipped())
			if !tt.skip {
				assert.Contains(t, res.Message, tt.entity.Name)
			}
			assert.GreaterOrEqual(t, res.Score, 0)
			assert.LessOrEqual(t, res.Score, MaxScore)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	t.Parallel()

	e := model.BusinessEntity{Name: "X", ReviewCount: 101, Rating: 4.1}
	assert.Equal(t, Score(e), Score(e))
}

func TestScore_Boundaries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Score(model.BusinessEntity{ReviewCount: 30, HasWebsite: true}).Score)
	assert.Equal(t, 2, Score(model.BusinessEntity{ReviewCount: 100, HasWebsite: true}).Score)
	assert.Equal(t, 3, Score(model.BusinessEntity{ReviewCount: 101, HasWebsite: true}).Score)
}

func TestEstimateSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.SizeSmall, EstimateSize(50))
	assert.Equal(t, model.SizeMedium, EstimateSize(51))
	assert.Equal(t, model.SizeMedium, EstimateSize(200))
	assert.Equal(t, model.SizeLarge, EstimateSize(201))
}
