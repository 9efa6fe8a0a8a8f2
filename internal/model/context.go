package model

// Category is the inferred business domain of the applicant
type Category string

const (
	CategoryRetail        Category = "retail"
	CategoryTechnology    Category = "technology"
	CategoryManufacturing Category = "manufacturing"
	CategoryHospitality   Category = "hospitality"
	CategoryServices      Category = "services"
	CategoryOther         Category = "other"
)

// Stage is the inferred maturity stage of the business
type Stage string

const (
	StageIdea        Stage = "idea"
	StageEarly       Stage = "early"
	StageGrowth      Stage = "growth"
	StageEstablished Stage = "established"
)

// ContextFragment carries categorical attributes inferred from earlier
// answers. Empty fields mean "not yet inferred"; merge only ever fills
// empty fields, so inferences are monotonic.
type ContextFragment struct {
	Category         Category `json:"category,omitempty" bson:"category,omitempty"`
	Stage            Stage    `json:"stage,omitempty" bson:"stage,omitempty"`
	SourceSegmentIDs []string `json:"sourceSegmentIds,omitempty" bson:"sourceSegmentIds,omitempty"`
}

// IsEmpty reports whether nothing has been inferred yet
func (c ContextFragment) IsEmpty() bool {
	return c.Category == "" && c.Stage == ""
}
