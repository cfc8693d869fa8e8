package profession

// Builtin is the reference set served by the site.
var Builtin = []Profession{
	{
		Slug:       "avvocati",
		Multiplier: 0.35,
		Copy: map[string]Copy{
			"it": {Title: "Studi legali", Tagline: "Meno tempo su atti e scadenze, più tempo per i clienti."},
			"en": {Title: "Law firms", Tagline: "Less time on filings and deadlines, more time for clients."},
		},
		Breakdown: []AreaWeight{
			{Area: "document_drafting", Weight: 0.40},
			{Area: "legal_research", Weight: 0.25},
			{Area: "deadlines", Weight: 0.20},
			{Area: "correspondence", Weight: 0.15},
		},
	},
	{
		Slug:       "commercialisti",
		Multiplier: 0.40,
		Copy: map[string]Copy{
			"it": {Title: "Studi commercialisti", Tagline: "Documenti dei clienti raccolti e classificati in automatico."},
			"en": {Title: "Accounting firms", Tagline: "Client documents collected and filed automatically."},
		},
		Breakdown: []AreaWeight{
			{Area: "document_collection", Weight: 0.35},
			{Area: "bookkeeping", Weight: 0.30},
			{Area: "deadlines", Weight: 0.20},
			{Area: "correspondence", Weight: 0.15},
		},
	},
	{
		Slug:       "consulenti-del-lavoro",
		Multiplier: 0.38,
		Copy: map[string]Copy{
			"it": {Title: "Consulenti del lavoro", Tagline: "Cedolini e comunicazioni senza inserimenti manuali."},
			"en": {Title: "Payroll consultants", Tagline: "Payslips and filings without manual data entry."},
		},
		Breakdown: []AreaWeight{
			{Area: "payroll", Weight: 0.45},
			{Area: "document_collection", Weight: 0.25},
			{Area: "correspondence", Weight: 0.30},
		},
	},
	{
		Slug:       "notai",
		Multiplier: 0.30,
		Copy: map[string]Copy{
			"it": {Title: "Studi notarili", Tagline: "Visure e bozze di atto preparate prima dell'appuntamento."},
			"en": {Title: "Notary offices", Tagline: "Searches and draft deeds ready before the appointment."},
		},
		Breakdown: []AreaWeight{
			{Area: "document_drafting", Weight: 0.50},
			{Area: "registry_checks", Weight: 0.30},
			{Area: "scheduling", Weight: 0.20},
		},
	},
	{
		Slug:       "dentisti",
		Multiplier: 0.25,
		Copy: map[string]Copy{
			"it": {Title: "Studi dentistici", Tagline: "Agenda, richiami e preventivi gestiti da un assistente AI."},
			"en": {Title: "Dental practices", Tagline: "Agenda, recalls and quotes handled by an AI assistant."},
		},
		Breakdown: []AreaWeight{
			{Area: "scheduling", Weight: 0.45},
			{Area: "patient_recalls", Weight: 0.30},
			{Area: "correspondence", Weight: 0.25},
		},
	},
	{
		Slug:       "architetti",
		Multiplier: 0.28,
		Copy: map[string]Copy{
			"it": {Title: "Studi di architettura", Tagline: "Pratiche edilizie e capitolati senza copia-incolla."},
			"en": {Title: "Architecture studios", Tagline: "Permits and specifications without copy-paste."},
		},
		Breakdown: []AreaWeight{
			{Area: "permits", Weight: 0.40},
			{Area: "document_drafting", Weight: 0.35},
			{Area: "correspondence", Weight: 0.25},
		},
	},
}

// Default returns the registry built from Builtin.
func Default() *Registry {
	r, err := NewRegistry(Builtin...)
	if err != nil {
		panic("profession: invalid builtin catalogue: " + err.Error())
	}
	return r
}
