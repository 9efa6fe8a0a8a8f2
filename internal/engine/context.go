package engine

import (
	"strings"

	"caseintake/internal/model"
)

// Keyword tables for category inference. First match in this order wins,
// so more specific vocabularies come before generic ones.
var categoryKeywords = []struct {
	category model.Category
	keywords []string
}{
	{model.CategoryRetail, []string{
		"shop", "store", "retail", "ecommerce", "e-commerce", "webshop",
		"merchandise", "inventory", "point of sale", "storefront", "boutique",
	}},
	{model.CategoryTechnology, []string{
		"software", "saas", "app", "platform", "api", "startup",
		"developer", "cloud", "ai ", "machine learning", "data",
	}},
	{model.CategoryManufacturing, []string{
		"factory", "manufactur", "production line", "assembly", "workshop",
		"fabricat", "supplier", "warehouse", "machining",
	}},
	{model.CategoryHospitality, []string{
		"restaurant", "cafe", "hotel", "catering", "bar ", "bakery",
		"guests", "bookings", "menu", "kitchen",
	}},
	{model.CategoryServices, []string{
		"consult", "agency", "clients", "freelance", "accounting",
		"law firm", "salon", "clinic", "cleaning", "repair",
	}},
}

// Keyword tables for maturity stage inference, checked most-mature first
// so "growing for ten years" reads as established rather than growth.
var stageKeywords = []struct {
	stage    model.Stage
	keywords []string
}{
	{model.StageEstablished, []string{
		"for years", "established", "decades", "long-standing", "since 19",
		"since 20", "employees", "second generation", "family business",
	}},
	{model.StageGrowth, []string{
		"growing", "expand", "scaling", "new market", "hiring",
		"more customers", "increasing demand", "second location",
	}},
	{model.StageIdea, []string{
		"idea", "planning to", "want to start", "thinking about",
		"haven't started", "not yet launched", "concept",
	}},
}

// InferCategory classifies free text into a business category.
// Absence of any match yields CategoryOther.
func InferCategory(text string) model.Category {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return model.CategoryOther
}

// InferStage classifies free text into a maturity stage.
// Absence of any match yields StageEarly.
func InferStage(text string) model.Stage {
	lower := strings.ToLower(text)
	for _, entry := range stageKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.stage
			}
		}
	}
	return model.StageEarly
}

// FragmentFromAnswer builds a context fragment from one segment's answer.
// Unusable (blank) text yields an empty fragment so it never overrides a
// later, usable answer via merge precedence.
func FragmentFromAnswer(segmentID, answer string) model.ContextFragment {
	if strings.TrimSpace(answer) == "" {
		return model.ContextFragment{}
	}
	return model.ContextFragment{
		Category:         InferCategory(answer),
		Stage:            InferStage(answer),
		SourceSegmentIDs: []string{segmentID},
	}
}

// MergeContext merges a new fragment into an existing one. Existing
// non-empty fields are preserved: the first, most foundational answer is
// the most reliable signal, so earlier inferences take precedence. Source
// segment IDs accumulate. Safe to call repeatedly.
func MergeContext(existing, fragment model.ContextFragment) model.ContextFragment {
	merged := existing
	if merged.Category == "" {
		merged.Category = fragment.Category
	}
	if merged.Stage == "" {
		merged.Stage = fragment.Stage
	}
	for _, id := range fragment.SourceSegmentIDs {
		if !containsString(merged.SourceSegmentIDs, id) {
			merged.SourceSegmentIDs = append(merged.SourceSegmentIDs, id)
		}
	}
	return merged
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
