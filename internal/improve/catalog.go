package improve

type item struct {
	category    Category
	title       string
	description string
}

var noWebsiteItems = []item{
	{Visibilite,
		"Vos clients vous cherchent... mais ne vous trouvent pas",
		"Sans site web, vous êtes invisible pour les 89% de clients qui recherchent d'abord en ligne avant d'appeler. Vos concurrents captent ces clients à votre place, chaque jour."},
	{Disponibilite,
		"Vous perdez des appels pendant que vous dormez",
		"Vos clients potentiels cherchent vos services à toute heure. Un site web travaille pour vous 24h/24, même le weekend et les jours fériés, sans aucun effort de votre part."},
	{Contact,
		"Impossible pour vos clients de vous contacter facilement",
		"Aujourd'hui, les clients veulent obtenir un devis ou prendre RDV en 2 clics depuis leur smartphone. Sans cette facilité, ils appellent votre concurrent qui l'offre."},
	{Credibilite,
		"Vos clients doutent de votre professionnalisme",
		"78% des consommateurs jugent la crédibilité d'une entreprise par son site web. Sans présence digitale, vous paraissez moins sérieux que vos concurrents, même si c'est faux."},
	{PreuveSociale,
		"Vous ne pouvez pas prouver la qualité de votre travail",
		"Vos meilleurs projets restent invisibles. Un site avec photos avant/après et témoignages clients multiplie par 4 votre taux de conversion téléphone → client."},
}

var catalog = map[Category]item{
	Securite: {Securite,
		"Google cache votre site à vos clients",
		"Sans certificat HTTPS, Google classe votre site comme 'non sécurisé' et le fait descendre dans les résultats. Résultat : 67% de vos clients potentiels ne vous trouvent jamais."},
	Mobile: {Mobile,
		"6 visiteurs sur 10 partent immédiatement",
		"Votre site est illisible sur smartphone. Or 63% de vos clients vous cherchent depuis leur téléphone. Ils partent voir vos concurrents en 3 secondes chrono."},
	Vitesse: {Vitesse,
		"Vos clients n'attendent pas plus de 3 secondes",
		"Votre site est trop lent : vous perdez 7% de clients potentiels par seconde de chargement. Sur un an, c'est des dizaines de milliers d'euros de CA qui s'évaporent."},
	Referencement: {Referencement,
		"Vous êtes invisible sur Google dans votre ville",
		"Quand un client tape '[votre activité] Lyon', vous n'apparaissez pas. Vos concurrents récupèrent 100% des clients qui vous cherchent. C'est comme avoir une boutique sans enseigne."},
	Description: {Description,
		"Votre site ne donne pas envie de cliquer",
		"Sur Google, votre site s'affiche sans description accrocheuse. Les gens cliquent sur vos concurrents à la place. Vous ratez 54% de visiteurs potentiels gratuitement."},
	Experience: {Experience,
		"Votre site fait fuir les clients au lieu de les convaincre",
		"Des problèmes techniques donnent une image amateur de votre entreprise. Les clients se demandent : 'Si leur site est négligé, est-ce que leur service le sera aussi ?'"},
	Formulaire: {Formulaire,
		"Vous ratez des demandes de devis toute la journée",
		"Sans formulaire de contact simple, vos clients doivent décrocher leur téléphone. 73% abandonnent et vont chez le concurrent qui a un formulaire en ligne."},
	Temoignages: {Temoignages,
		"Vos clients satisfaits ne peuvent pas vous recommander",
		"Vos meilleurs arguments de vente (les avis 5 étoiles de vrais clients) sont invisibles. Afficher des témoignages augmente vos conversions de +270%."},
	Portfolio: {Portfolio,
		"Impossible de voir la qualité de votre travail",
		"Sans photos de vos réalisations, les clients doutent. Un portfolio photo bien présenté divise par 2 le temps de décision et double votre taux de conversion."},
	ReseauxSociaux: {ReseauxSociaux,
		"Vous perdez la connexion avec vos clients fidèles",
		"Sans lien vers vos réseaux sociaux, vos clients ne peuvent pas suivre votre actualité. Vous ratez des occasions de les faire revenir et de créer du bouche-à-oreille."},
	Conversion: {Conversion,
		"Des clients prêts à acheter vous glissent entre les doigts",
		"En améliorant l'expérience de visite de votre site, vous transformeriez 3 fois plus de visiteurs en clients. C'est de l'argent facile à récupérer."},
}

// genericItems backfill the list, in this order.
var genericItems = []item{
	{Concurrence,
		"Vos concurrents volent vos clients sous votre nez",
		"Pendant que vous lisez ceci, des clients comparent les sites de vos concurrents. Sans site optimisé, vous perdez systématiquement ces comparaisons, même si votre service est meilleur."},
	{Telephone,
		"Votre téléphone pourrait sonner 2 fois plus",
		"Un site web optimisé pour la conversion génère en moyenne 2 à 3 fois plus d'appels qu'un site négligé. C'est comme avoir un commercial qui travaille gratuitement pour vous 24/7."},
	{ManqueGagner,
		"Vous laissez de l'argent sur la table chaque mois",
		"Chaque visiteur qui part sans vous contacter, c'est un client potentiel perdu. Sur un an, les problèmes de votre site vous coûtent probablement l'équivalent de plusieurs mois de CA."},
	{Valorisation,
		"Vos meilleurs atouts restent cachés",
		"Vous avez des années d'expérience, des dizaines de clients satisfaits, mais personne ne le voit en ligne. Un bon site met en valeur VOTRE expertise unique qui justifie vos tarifs."},
	{Efficacite,
		"Vous travaillez 2 fois plus pour le même résultat",
		"Sans site efficace, vous devez convaincre chaque client au téléphone. Un site bien fait fait 80% du travail de conviction AVANT l'appel, vous libérant un temps précieux."},
}
