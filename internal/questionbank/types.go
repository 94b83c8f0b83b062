package questionbank

// Domain is a math topic category used to group diagnostic questions.
type Domain string

const (
	DomainPlaceValue     Domain = "place-value"
	DomainAddition       Domain = "addition"
	DomainSubtraction    Domain = "subtraction"
	DomainMultiplication Domain = "multiplication"
	DomainDivision       Domain = "division"
	DomainFractions      Domain = "fractions"
	DomainGeometry       Domain = "geometry"
	DomainMeasurement    Domain = "measurement"
)

// AllDomains returns all domains in canonical display order. Domain lists
// returned by a Bank always follow this order.
func AllDomains() []Domain {
	return []Domain{
		DomainPlaceValue,
		DomainAddition,
		DomainSubtraction,
		DomainMultiplication,
		DomainDivision,
		DomainFractions,
		DomainGeometry,
		DomainMeasurement,
	}
}

// DomainDisplayName returns a human-readable name for a domain.
func DomainDisplayName(d Domain) string {
	switch d {
	case DomainPlaceValue:
		return "Place Value"
	case DomainAddition:
		return "Addition"
	case DomainSubtraction:
		return "Subtraction"
	case DomainMultiplication:
		return "Multiplication"
	case DomainDivision:
		return "Division"
	case DomainFractions:
		return "Fractions"
	case DomainGeometry:
		return "Geometry"
	case DomainMeasurement:
		return "Measurement"
	default:
		return string(d)
	}
}

// Grade bounds supported by the diagnostic.
const (
	MinGrade = 1
	MaxGrade = 8
)

// Question is a single diagnostic question. Questions are immutable once
// loaded; engines only hold references to them.
type Question struct {
	ID       string `json:"id" yaml:"id"`
	Domain   Domain `json:"domain" yaml:"domain"`
	GradeMin int    `json:"gradeMin" yaml:"gradeMin"`
	GradeMax int    `json:"gradeMax" yaml:"gradeMax"`
	Prompt   string `json:"prompt" yaml:"prompt"`
	Answer   string `json:"answer" yaml:"answer"`

	// Order is the position of the question within its domain for a grade
	// band. Lower values are asked first.
	Order int `json:"order" yaml:"order"`
}

// CoversGrade reports whether the question targets grade.
func (q Question) CoversGrade(grade int) bool {
	return grade >= q.GradeMin && grade <= q.GradeMax
}

// Provider supplies diagnostic questions. Implementations are read-only
// and safe for concurrent use.
type Provider interface {
	// QuestionsForGrade returns the questions covering grade, ordered by
	// domain (canonical order) then Order.
	QuestionsForGrade(grade int) []Question

	// DomainsForGrade returns the domains with at least one question for
	// grade, in canonical order.
	DomainsForGrade(grade int) []Domain
}
