package compliance

// Standard codes.
const (
	EBRDEnvironmental = "ebrd_environmental"
	IFCPerformance    = "ifc_performance"
	EUTaxonomy        = "eu_taxonomy"
	LocalContent      = "local_content"
	ESGScoring        = "esg_scoring"
	EquatorPrinciples = "equator_principles"
)

// Standard is a compliance framework and the requirements checked against it.
type Standard struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	Categories      []string `json:"categories"`
	KeyRequirements []string `json:"key_requirements"`
}

var standards = map[string]Standard{
	EBRDEnvironmental: {
		Code: EBRDEnvironmental,
		Name: "EBRD Environmental and Social Policy",
		Categories: []string{
			"Environmental and Social Assessment",
			"Labour and Working Conditions",
			"Resource Efficiency and Pollution Prevention",
			"Health and Safety",
			"Land Acquisition and Involuntary Resettlement",
			"Biodiversity Conservation",
			"Indigenous Peoples",
			"Cultural Heritage",
			"Financial Intermediaries",
			"Information Disclosure and Stakeholder Engagement",
		},
		KeyRequirements: []string{
			"Environmental and Social Impact Assessment (ESIA)",
			"Stakeholder Engagement Plan",
			"Environmental and Social Management System (ESMS)",
			"Grievance Mechanism",
			"Disclosure of project information",
		},
	},
	IFCPerformance: {
		Code: IFCPerformance,
		Name: "IFC Performance Standards",
		Categories: []string{
			"PS1: Assessment and Management of Environmental and Social Risks",
			"PS2: Labor and Working Conditions",
			"PS3: Resource Efficiency and Pollution Prevention",
			"PS4: Community Health, Safety, and Security",
			"PS5: Land Acquisition and Involuntary Resettlement",
			"PS6: Biodiversity Conservation and Sustainable Management",
			"PS7: Indigenous Peoples",
			"PS8: Cultural Heritage",
		},
		KeyRequirements: []string{
			"Environmental and Social Management System",
			"Stakeholder Engagement",
			"Environmental and Social Assessment",
			"Management Program",
			"Monitoring and Review",
		},
	},
	EUTaxonomy: {
		Code: EUTaxonomy,
		Name: "EU Taxonomy for Sustainable Activities",
		Categories: []string{
			"Climate Change Mitigation",
			"Climate Change Adaptation",
			"Sustainable Use of Water and Marine Resources",
			"Transition to Circular Economy",
			"Pollution Prevention and Control",
			"Protection of Healthy Ecosystems",
		},
		KeyRequirements: []string{
			"Substantial Contribution to Environmental Objective",
			"Do No Significant Harm (DNSH) to other objectives",
			"Minimum Social Safeguards",
			"Technical Screening Criteria compliance",
		},
	},
	LocalContent: {
		Code: LocalContent,
		Name: "Local Content Requirements",
		Categories: []string{
			"Local Employment",
			"Local Procurement",
			"Skills Transfer",
			"Community Development",
		},
		KeyRequirements: []string{
			"Local employment targets",
			"Local supplier engagement",
			"Training and capacity building",
			"Community benefit agreements",
		},
	},
	ESGScoring: {
		Code: ESGScoring,
		Name: "ESG Scoring Framework",
		Categories: []string{
			"Environmental Performance",
			"Social Impact",
			"Governance Structure",
		},
		KeyRequirements: []string{
			"Carbon footprint disclosure",
			"Diversity and inclusion metrics",
			"Board independence",
			"Anti-corruption measures",
		},
	},
	EquatorPrinciples: {
		Code: EquatorPrinciples,
		Name: "Equator Principles",
		Categories: []string{
			"Review and Categorization",
			"Environmental and Social Assessment",
			"Applicable Standards",
			"Action Plan and Management System",
			"Stakeholder Engagement",
			"Grievance Mechanism",
			"Independent Review",
			"Covenants",
			"Independent Monitoring and Reporting",
			"Reporting and Transparency",
		},
		KeyRequirements: []string{
			"Project categorization (A, B, or C)",
			"Environmental and Social Impact Assessment",
			"Environmental and Social Management Plan",
			"Stakeholder engagement process",
			"Independent environmental and social consultant",
		},
	},
}

// Lookup returns the standard with the given code.
func Lookup(code string) (Standard, bool) {
	s, ok := standards[code]
	return s, ok
}

// Codes returns every known standard code in a fixed order.
func Codes() []string {
	return []string{EBRDEnvironmental, IFCPerformance, EUTaxonomy, LocalContent, ESGScoring, EquatorPrinciples}
}
