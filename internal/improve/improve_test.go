package improve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loan69/ai-agent-prospection/internal/detector"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

func withSignals(issues, opps []string) model.BusinessEntity {
	return model.BusinessEntity{
		Name:       "Garage Durand",
		HasWebsite: true,
		WebsiteSignals: &model.WebsiteSignals{
			Exists:        true,
			Issues:        issues,
			Opportunities: opps,
		},
	}
}

func categories(items []Item) []Category {
	out := make([]Category, len(items))
	for i, it := range items {
		out[i] = it.Category
	}
	return out
}

func TestSelectTop5_NoWebsite(t *testing.T) {
	t.Parallel()

	entity := model.BusinessEntity{Name: "Salon Léa", HasWebsite: false}

	first := SelectTop5(entity)
	require.Len(t, first, 5)
	assert.Equal(t, []string{
		"Vos clients vous cherchent... mais ne vous trouvent pas",
		"Vous perdez des appels pendant que vous dormez",
		"Impossible pour vos clients de vous contacter facilement",
		"Vos clients doutent de votre professionnalisme",
		"Vous ne pouvez pas prouver la qualité de votre travail",
	}, []string{first[0].Title, first[1].Title, first[2].Title, first[3].Title, first[4].Title})

	assert.Equal(t,
		[]Category{Visibilite, Disponibilite, Contact, Credibilite, PreuveSociale},
		categories(Select(entity)))

	// Signals are ignored when the entity has no website.
	entity.WebsiteSignals = &model.WebsiteSignals{Issues: []string{"Site lent (9000ms)"}}
	assert.Equal(t, first, SelectTop5(entity))
}

func TestSelectTop5_IssuesThenGenerics(t *testing.T) {
	t.Parallel()

	entity := withSignals([]string{"Pas de certificat SSL (HTTP au lieu de HTTPS)", "Site lent (4200ms)"}, nil)

	items := Select(entity)
	assert.Equal(t, []Category{Securite, Vitesse, Concurrence, Telephone, ManqueGagner}, categories(items))

	public := SelectTop5(entity)
	require.Len(t, public, 5)
	assert.Equal(t, "Google cache votre site à vos clients", public[0].Title)
	assert.Equal(t, "Vos clients n'attendent pas plus de 3 secondes", public[1].Title)
	assert.Equal(t, "Vos concurrents volent vos clients sous votre nez", public[2].Title)
}

func TestSelectTop5_SameCategoryDropped(t *testing.T) {
	t.Parallel()

	entity := withSignals([]string{
		"Site lent (4200ms)",
		"Chargement des images trop long",
		"Performance médiocre",
	}, nil)

	items := Select(entity)
	require.Len(t, items, 5)
	count := 0
	for _, it := range items {
		if it.Category == Vitesse {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []Category{Vitesse, Concurrence, Telephone, ManqueGagner, Valorisation}, categories(items))
}

func TestSelectTop5_FallbackCategories(t *testing.T) {
	t.Parallel()

	entity := withSignals(
		[]string{"Police illisible", "Couleurs criardes"},
		[]string{"Refonte complète", "Ajout d'un blog"},
	)

	assert.Equal(t, []Category{Experience, Conversion, Concurrence, Telephone, ManqueGagner}, categories(Select(entity)))
}

func TestSelectTop5_OpportunitiesStopWhenFull(t *testing.T) {
	t.Parallel()

	entity := withSignals(
		[]string{
			"Pas de certificat SSL",
			"Pas de viewport mobile détecté",
			"Site lent (5000ms)",
			"Titre de page manquant ou trop court",
		},
		[]string{
			"Ajout d'un formulaire de contact",
			"Galerie photo des réalisations",
		},
	)

	assert.Equal(t, []Category{Securite, Mobile, Vitesse, Referencement, Formulaire}, categories(Select(entity)))
}

func TestSelectTop5_NilSignals(t *testing.T) {
	t.Parallel()

	entity := model.BusinessEntity{HasWebsite: true}
	assert.Equal(t, []Category{Concurrence, Telephone, ManqueGagner, Valorisation, Efficacite}, categories(Select(entity)))
}

func TestSelectTop5_DetectorLabels(t *testing.T) {
	t.Parallel()

	entity := withSignals(
		[]string{
			detector.IssueNoSSL,
			detector.IssueTitle,
			detector.IssueMeta,
			detector.IssueViewport,
			detector.IssueContact,
			detector.IssueFramework,
			detector.IssueSocial,
		},
		[]string{
			detector.OpportunitySSL,
			detector.OpportunityContact,
		},
	)

	assert.Equal(t, []Category{Securite, Referencement, Description, Mobile, Experience}, categories(Select(entity)))
}

func TestSelectTop5_UnreachableSite(t *testing.T) {
	t.Parallel()

	for _, issue := range []string{detector.IssueUnreachable, fmt.Sprintf(detector.IssueTimeoutFormat, 5000)} {
		entity := withSignals([]string{issue}, []string{detector.OpportunityNewSite})
		entity.WebsiteSignals.Exists = false

		got := categories(Select(entity))
		require.Len(t, got, MaxItems)
		assert.Equal(t, Experience, got[0], issue)
		assert.NotContains(t, got, Vitesse, issue)
		assert.NotContains(t, got, Mobile, issue)
		assert.NotContains(t, got, Securite, issue)
	}
}

func TestSelectTop5_Invariants(t *testing.T) {
	t.Parallel()

	labels := []string{
		"ssl", "mobile", "lent", "titre", "meta", "autre",
		"formulaire", "avis", "photo", "réseaux", "divers",
	}
	for i := range labels {
		for j := range labels {
			entity := withSignals(labels[:i], labels[j:])
			items := Select(entity)
			assert.Len(t, items, MaxItems)

			seen := map[Category]bool{}
			for _, it := range items {
				assert.False(t, seen[it.Category], "duplicate %s", it.Category)
				seen[it.Category] = true
			}
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		issue Category
		opp   Category
	}{
		{"Pas de certificat SSL", Securite, Conversion},
		{"Migration vers HTTPS", Securite, Conversion},
		{"Pas de VIEWPORT", Mobile, Conversion},
		{"Meta description manquante", Description, Conversion},
		{"Optimisation SEO du titre", Referencement, Conversion},
		{"Témoignages clients absents", Experience, Temoignages},
		{"Intégration des réseaux sociaux", Experience, ReseauxSociaux},
		{"Page contact absente", Experience, Formulaire},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.issue, ClassifyIssue(tt.label), tt.label)
		assert.Equal(t, tt.opp, ClassifyOpportunity(tt.label), tt.label)
	}
}

func TestCategoryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "preuve-sociale", PreuveSociale.String())
	assert.Equal(t, "reseaux-sociaux", ReseauxSociaux.String())
	assert.Equal(t, "manque-gagner", ManqueGagner.String())
	assert.Equal(t, "unknown", Category(0).String())
}

func TestCatalogComplete(t *testing.T) {
	t.Parallel()

	for _, r := range issueRules {
		assert.Contains(t, catalog, r.category)
	}
	for _, r := range opportunityRules {
		assert.Contains(t, catalog, r.category)
	}
	assert.Contains(t, catalog, Experience)
	assert.Contains(t, catalog, Conversion)
	assert.Len(t, genericItems, MaxItems)
	assert.Len(t, noWebsiteItems, MaxItems)
}
