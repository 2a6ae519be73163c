package improve

// Category is the deduplication key of an improvement item.
type Category int

const (
	// No-website angles.
	Visibilite Category = iota + 1
	Disponibilite
	Contact
	Credibilite
	PreuveSociale

	// Issue categories.
	Securite
	Mobile
	Vitesse
	Referencement
	Description
	Experience

	// Opportunity categories.
	Formulaire
	Temoignages
	Portfolio
	ReseauxSociaux
	Conversion

	// Generic fallbacks.
	Concurrence
	Telephone
	ManqueGagner
	Valorisation
	Efficacite
)

var categoryNames = map[Category]string{
	Visibilite:     "visibilite",
	Disponibilite:  "disponibilite",
	Contact:        "contact",
	Credibilite:    "credibilite",
	PreuveSociale:  "preuve-sociale",
	Securite:       "securite",
	Mobile:         "mobile",
	Vitesse:        "vitesse",
	Referencement:  "referencement",
	Description:    "description",
	Experience:     "experience",
	Formulaire:     "formulaire",
	Temoignages:    "temoignages",
	Portfolio:      "portfolio",
	ReseauxSociaux: "reseaux-sociaux",
	Conversion:     "conversion",
	Concurrence:    "concurrence",
	Telephone:      "telephone",
	ManqueGagner:   "manque-gagner",
	Valorisation:   "valorisation",
	Efficacite:     "efficacite",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "unknown"
}

type rule struct {
	keywords []string
	category Category
}

// issueRules is scanned in order; the first rule with a matching keyword wins.
var issueRules = []rule{
	{[]string{"ssl", "https"}, Securite},
	{[]string{"mobile", "viewport"}, Mobile},
	{[]string{"lent", "performance", "chargement"}, Vitesse},
	{[]string{"titre", "title", "seo"}, Referencement},
	{[]string{"description", "meta"}, Description},
}

var opportunityRules = []rule{
	{[]string{"formulaire", "contact"}, Formulaire},
	{[]string{"témoignage", "avis"}, Temoignages},
	{[]string{"photo", "galerie", "portfolio"}, Portfolio},
	{[]string{"réseaux", "social"}, ReseauxSociaux},
}
