// Package prompt builds the French instruction blocks sent to the language
// model for qualification, business scoring and message generation.
package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// Task identifies a prompt family.
type Task string

const (
	TaskQualification Task = "qualification"
	TaskScoring       Task = "scoring"
	TaskMessage       Task = "message"
)

// Temperature returns the sampling temperature used for a task.
func Temperature(t Task) float64 {
	switch t {
	case TaskQualification:
		return 0.2
	case TaskScoring:
		return 0.7
	default:
		return 0.4
	}
}

// DefaultContactThreshold is the minimum score worth contacting.
const DefaultContactThreshold = 6

// Qualification asks whether the lead can afford a 3 000 - 8 000 EUR project.
func Qualification(lead model.RawLead) string {
	observations := "{}"
	if len(lead.RawData) > 0 {
		if b, err := json.Marshal(lead.RawData); err == nil {
			observations = string(b)
		}
	}

	return fmt.Sprintf(`Tu es un expert en acquisition B2B et en projets digitaux.

Objectif :
Décider si cette entreprise peut investir entre 3 000 € et 8 000 €.

Entreprise :
Nom : %s
Secteur : %s
Ville : %s
Observations : %s

Analyse :
- potentiel business
- maturité digitale
- besoin réel

Répond STRICTEMENT :
%s: X/10
%s: %s ou %s
%s: %s ou %s
%s: texte court
`,
		lead.CompanyName, lead.Sector, lead.City, observations,
		LabelScore,
		LabelVerdict, VerdictContact, VerdictIgnore,
		LabelSegment, SegmentArtisan, SegmentB2B,
		LabelJustification,
	)
}

// BusinessScoring asks the model to size and score a local business for a
// Lyon web agency. threshold is the score from which a message is written.
func BusinessScoring(b model.BusinessEntity, threshold int) string {
	var sb strings.Builder

	website := "Non"
	if b.HasWebsite {
		website = "Oui"
	}

	fmt.Fprintf(&sb, `Tu es un expert en prospection B2B pour une agence web freelance basée à Lyon.

ENTREPRISE À ANALYSER:
- Nom: %s
- Catégorie: %s
- Note Google: %s/5 (%d avis)
- Site web: %s
- Analyse du site: %s

CRITÈRES DE QUALIFICATION:
1. **Capacité financière**: L'entreprise génère-t-elle assez de CA pour se payer des services web (min 200k€/an) ?
   - Utilise le nombre d'avis, la note, et le type d'activité pour estimer
   - Restaurants avec 200+ avis = probablement rentable
   - Boutiques avec 50+ avis = probablement viable
   - Services professionnels (avocats, comptables) = souvent bon CA

2. **Besoin web**: L'activité nécessite-t-elle une présence web forte ?
   - Restaurants, boutiques, services = OUI
   - Artisans locaux uniquement = MOYEN

3. **Opportunités**: Y a-t-il des axes d'amélioration clairs et vendables ?
   - Pas de site = grosse opportunité
   - Site avec problèmes = opportunité moyenne
   - Site moderne et performant = faible opportunité
`,
		b.Name, b.Category, strconv.FormatFloat(b.Rating, 'f', -1, 64), b.ReviewCount, website, b.AnalysisSummary())

	if b.HasWebsite && b.WebsiteSignals != nil && b.WebsiteSignals.Clean() {
		fmt.Fprintf(&sb, `
RÈGLE IMPÉRATIVE:
Aucun problème ni opportunité n'a été détecté sur ce site. La note DOIT être strictement inférieure à %d.
`, threshold)
	}

	fmt.Fprintf(&sb, `
TÂCHE:
1. Estime la taille de l'entreprise: "small" (< 5 employés), "medium" (5-20), "large" (20+)
2. Note la pertinence du lead de 0 à 10
3. Explique ton raisonnement en 2-3 phrases
4. Si score >= %d: Génère un message de prospection personnalisé (3-4 phrases max, professionnel mais sympa)
5. Si score < %d: Écris juste "%s"

FORMAT DE RÉPONSE:
%s: [small/medium/large]
%s: [0-10]/10
%s: [Ton analyse]
%s: [Message de prospection OU "%s"]`,
		threshold, threshold, model.SkipMessage,
		LabelSize, LabelNote, LabelReasoning, LabelMessage, model.SkipMessage)

	return sb.String()
}

// Message builds the outreach prompt for the input's segment.
func Message(in model.MessageInput) string {
	switch in.Segment {
	case model.SegmentArtisan:
		return artisanMessage(in)
	case model.SegmentFreelance:
		return freelanceMessage(in)
	default:
		return b2bMessage(in)
	}
}

func artisanMessage(in model.MessageInput) string {
	return fmt.Sprintf(`Tu es un freelance spécialisé dans les sites web pour artisans.

Contexte :
Entreprise : %s
Ville : %s
Problème identifié : %s

Objectif :
Rédige un message simple, professionnel, humain.
Pas de vente directe. Pas de jargon technique.
Objectif : initier une discussion.

Message :
`, in.CompanyName, in.City, in.ProblemDetected)
}

func b2bMessage(in model.MessageInput) string {
	return fmt.Sprintf(`Tu es un freelance spécialisé dans les outils métiers et sites B2B.

Entreprise : %s
Problème : %s
Angle business : %s

Rédige un message professionnel, personnalisé,
orienté valeur et échange, pas vente.

Message :
`, in.CompanyName, in.ProblemDetected, in.BusinessAngle)
}

// Signature closes every freelance reply.
const Signature = `Loan
📧 loandervillers@gmail.com
📞 07 69 24 95 76`

func freelanceMessage(in model.MessageInput) string {
	return fmt.Sprintf(`Tu es un freelance senior spécialisé dans la création de sites web, SaaS et applications sur mesure pour des entreprises.

⚠️ RÈGLES STRICTES :
- Tu NE RÉPONDS PAS si le projet semble déjà très concurrentiel (beaucoup de réponses probables, besoin très générique ou ultra détaillé).
- Tu privilégies uniquement les projets récents, encore ouverts, avec peu de signaux de saturation.
- Si tu estimes que le projet ne vaut pas la peine, réponds uniquement : "%s".

SI TU RÉPONDS :
- Maximum 1000 caractères
- Ton professionnel, humain, clair, non robotique
- Ne JAMAIS répéter mot pour mot les phrases du projet
- Reformuler avec tes propres mots
- Mettre en avant une compréhension métier
- Être différenciant (pas générique)

CONTENU OBLIGATOIRE :
1. Une phrase d'accroche personnalisée
2. Une proposition claire de valeur
3. Une estimation réaliste de prix en fonction de l'estimation de la charge que ça pourrait prendre
4. Un délai de réalisation réaliste
5. Une invitation à échanger (sans être agressif)

SIGNATURE OBLIGATOIRE (à la fin) :
%s

CONTEXTE DU PROJET :
Description du besoin :
"""%s"""

ANGLE BUSINESS À PRIVILÉGIER :
%s

Tu dois aussi attribuer une %s sur 10 à ce projet selon son intérêt commercial pour toi.
Format STRICT de sortie :

%s: X/10
%s:
Rédige maintenant la réponse.
`, model.SkipMessage, Signature, in.ProblemDetected, in.BusinessAngle, LabelNote, LabelNote, LabelMessage)
}
