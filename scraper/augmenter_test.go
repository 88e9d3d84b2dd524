package scraper

import (
	"encoding/json"
	"testing"

	"prodlens/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRawText = `Organic Honey 500g
₹450.00 with free delivery
-10%
₹90.00 per kg
Currently in stock.
FREE scheduled delivery as soon as tomorrow 6 AM
Delivering to Mumbai 400001 - Update location
Sold by FreshMart Retail
Weight: 0.5 kg
Ingredients: Honey, Nothing Else.
4.3 out of 5 stars
M.R.P.: ₹500.00`

func TestAugmentFillsMissingFields(t *testing.T) {
	r := Augment(models.NewRecord(), sampleRawText)

	tests := []struct {
		section string
		field   string
		want    string
	}{
		{models.SectionPricing, models.FieldMRP, "₹500.00"},
		{models.SectionPricing, models.FieldCurrentPrice, "₹450.00"},
		{models.SectionPricing, models.FieldDiscount, "-10%"},
		{models.SectionPricing, models.FieldUnitPrice, "₹90.00 per kg"},
		{models.SectionDelivery, models.FieldAvailability, "In Stock"},
		{models.SectionDelivery, models.FieldEstimatedDeliveryTime, "FREE scheduled delivery as soon as tomorrow 6 AM"},
		{models.SectionDelivery, models.FieldShippingDetails, "Delivering to Mumbai 400001 - Update location"},
		{models.SectionSeller, models.FieldSellerName, "FreshMart Retail"},
		{models.SectionSpecifications, models.FieldWeight, "0.5 kg"},
		{models.SectionSpecifications, models.FieldIngredients, "Honey, Nothing Else"},
		{models.SectionReviews, models.FieldSummary, "4.3 out of 5 stars"},
	}

	for _, tt := range tests {
		t.Run(tt.section+"."+tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Field(tt.section, tt.field))
		})
	}
}

func TestAugmentDerivesMRPFromPriceAndDiscount(t *testing.T) {
	r := models.NewRecord()
	r.SetField(models.SectionPricing, models.FieldCurrentPrice, "₹450.00")
	r.SetField(models.SectionPricing, models.FieldDiscount, "-10%")

	r = Augment(r, "no explicit list price here")

	assert.Equal(t, "₹500.00", r.Field(models.SectionPricing, models.FieldMRP))
}

func TestAugmentMRPExplicitLabelAnchoring(t *testing.T) {
	tests := []struct {
		name    string
		rawText string
		want    string
	}{
		{"label at end of text", "Organic Honey 500g\nM.R.P.: ₹500.00", "₹500.00"},
		{"label before trailing newline", "M.R.P.: ₹500.00\n", "₹500.00"},
		{"repeated label", "M.R.P.: ₹500.00 M.R.P.: ₹500.00", "₹500.00"},
		{"label mid-text", "M.R.P.: ₹999.00\nIn stock", ""},
		{"trailing words after amount", "M.R.P.: ₹999.00 incl. taxes", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Augment(models.NewRecord(), tt.rawText)
			assert.Equal(t, tt.want, r.Field(models.SectionPricing, models.FieldMRP))
		})
	}
}

func TestAugmentMRPMidTextLabelLosesToDerivation(t *testing.T) {
	r := models.NewRecord()
	r.SetField(models.SectionPricing, models.FieldCurrentPrice, "₹450.00")
	r.SetField(models.SectionPricing, models.FieldDiscount, "-10%")

	r = Augment(r, "M.R.P.: ₹999.00\nIn stock")

	assert.Equal(t, "₹500.00", r.Field(models.SectionPricing, models.FieldMRP),
		"a list price buried mid-text is noise; the derived value wins")
}

func TestAugmentMRPDerivationGuards(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
	}{
		{"discount of 100 percent", "₹450.00", "-100%"},
		{"discount of zero", "₹450.00", "-0%"},
		{"discount above 100", "₹450.00", "-250%"},
		{"malformed price", "four fifty", "-10%"},
		{"discount without digits", "₹450.00", "-%"},
		{"missing discount", "₹450.00", ""},
		{"missing price", "", "-10%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := models.NewRecord()
			if tt.price != "" {
				r.SetField(models.SectionPricing, models.FieldCurrentPrice, tt.price)
			}
			if tt.discount != "" {
				r.SetField(models.SectionPricing, models.FieldDiscount, tt.discount)
			}

			r = Augment(r, "nothing useful")

			assert.False(t, r.HasField(models.SectionPricing, models.FieldMRP),
				"MRP must stay absent when derivation cannot produce a sane value")
		})
	}
}

func TestAugmentMRPDerivationFormatsThousands(t *testing.T) {
	r := models.NewRecord()
	r.SetField(models.SectionPricing, models.FieldCurrentPrice, "₹9,000.00")
	r.SetField(models.SectionPricing, models.FieldDiscount, "-10%")

	r = Augment(r, "")

	assert.Equal(t, "₹10,000.00", r.Field(models.SectionPricing, models.FieldMRP))
}

func TestAugmentAvailabilityOverride(t *testing.T) {
	r := models.NewRecord()
	r.SetField(models.SectionDelivery, models.FieldAvailability, "Unknown")

	r = Augment(r, "Fast dispatch. In stock. Order soon.")

	assert.Equal(t, "In Stock", r.Field(models.SectionDelivery, models.FieldAvailability))
}

func TestAugmentAvailabilityNotSetWithoutEvidence(t *testing.T) {
	r := models.NewRecord()
	r.SetField(models.SectionDelivery, models.FieldAvailability, "Out of Stock")

	r = Augment(r, "Currently unavailable.")

	assert.Equal(t, "Out of Stock", r.Field(models.SectionDelivery, models.FieldAvailability))
}

func TestAugmentDoesNotClobberExistingValues(t *testing.T) {
	r := models.NewRecord()
	r.SetField(models.SectionPricing, models.FieldCurrentPrice, "₹999.00")
	r.SetField(models.SectionSeller, models.FieldSellerName, "Original Seller")
	r.SetField(models.SectionReviews, models.FieldSummary, "4.9 out of 5 stars")

	r = Augment(r, sampleRawText)

	assert.Equal(t, "₹999.00", r.Field(models.SectionPricing, models.FieldCurrentPrice))
	assert.Equal(t, "Original Seller", r.Field(models.SectionSeller, models.FieldSellerName))
	assert.Equal(t, "4.9 out of 5 stars", r.Field(models.SectionReviews, models.FieldSummary))
}

func TestAugmentIsIdempotent(t *testing.T) {
	once := Augment(models.NewRecord(), sampleRawText)

	snapshot, err := json.Marshal(once)
	require.NoError(t, err)

	twice := Augment(once, sampleRawText)
	again, err := json.Marshal(twice)
	require.NoError(t, err)

	assert.JSONEq(t, string(snapshot), string(again))
}

func TestAugmentCurrentPriceFallback(t *testing.T) {
	// No "<amount> with" phrasing: the first currency amount anywhere wins.
	r := Augment(models.NewRecord(), "Deal price ₹1,234.00 today only")

	assert.Equal(t, "₹1,234.00", r.Field(models.SectionPricing, models.FieldCurrentPrice))
}

func TestAugmentDeliveryTimeFallbackPattern(t *testing.T) {
	r := Augment(models.NewRecord(), "Get it with scheduled delivery as soon as Thursday 8 AM")

	assert.Equal(t, "scheduled delivery as soon as Thursday 8 AM",
		r.Field(models.SectionDelivery, models.FieldEstimatedDeliveryTime))
}

func TestAugmentIngredientsKeepNonASCIILetters(t *testing.T) {
	r := Augment(models.NewRecord(), "Ingredients: Miel orgánica, açúcar de caña")

	assert.Equal(t, "Miel orgánica, açúcar de caña",
		r.Field(models.SectionSpecifications, models.FieldIngredients))
}

func TestAugmentNoMatchesLeavesRecordEmpty(t *testing.T) {
	r := Augment(models.NewRecord(), "completely unrelated text")

	scored := Score(r)
	assert.Equal(t, 0, scored.QualityScore())
}

func TestAugmentNilRecord(t *testing.T) {
	r := Augment(nil, sampleRawText)

	assert.NotNil(t, r)
	assert.Equal(t, "FreshMart Retail", r.Field(models.SectionSeller, models.FieldSellerName))
}

func TestAugmentCreatesMissingSections(t *testing.T) {
	// A record parsed from partial model output may lack whole sections;
	// augmentation must create them on first write.
	r := models.Record{"basic_info": map[string]any{"title": "Honey"}}

	r = Augment(r, sampleRawText)

	assert.Equal(t, "In Stock", r.Field(models.SectionDelivery, models.FieldAvailability))
	assert.Equal(t, "FreshMart Retail", r.Field(models.SectionSeller, models.FieldSellerName))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{500, "500.00"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
		{0.5, "0.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.value))
	}
}
