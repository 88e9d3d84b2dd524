package scraper

import "prodlens/models"

// fieldWeight is one entry of the completeness rubric.
type fieldWeight struct {
	section string
	field   string
	weight  int
}

// scoreRubric assigns the per-field completeness points. The maximum
// attainable score, with all sixteen fields populated, is 94.
var scoreRubric = []fieldWeight{
	{models.SectionBasicInfo, models.FieldTitle, 10},
	{models.SectionBasicInfo, models.FieldDescription, 10},
	{models.SectionPricing, models.FieldCurrentPrice, 10},
	{models.SectionPricing, models.FieldMRP, 5},
	{models.SectionPricing, models.FieldDiscount, 5},
	{models.SectionPricing, models.FieldUnitPrice, 5},
	{models.SectionDelivery, models.FieldAvailability, 5},
	{models.SectionDelivery, models.FieldEstimatedDeliveryTime, 5},
	{models.SectionDelivery, models.FieldShippingDetails, 5},
	{models.SectionSeller, models.FieldSellerName, 5},
	{models.SectionSeller, models.FieldShippingOrigin, 3},
	{models.SectionSeller, models.FieldFulfillmentInfo, 3},
	{models.SectionSpecifications, models.FieldWeight, 5},
	{models.SectionSpecifications, models.FieldDimensions, 3},
	{models.SectionSpecifications, models.FieldIngredients, 5},
	{models.SectionReviews, models.FieldSummary, 10},
}

// MaxQualityScore is the sum of every rubric weight.
const MaxQualityScore = 94

// Score computes the completeness score of a record and stores it under the
// quality_score key. It is a total function: any record, including an empty
// one, scores deterministically in [0, 94]. Scoring is the final mutation a
// record sees.
func Score(record models.Record) models.Record {
	if record == nil {
		record = models.NewRecord()
	}

	score := 0
	for _, fw := range scoreRubric {
		if record.HasField(fw.section, fw.field) {
			score += fw.weight
		}
	}

	record[models.QualityScoreKey] = score
	return record
}
