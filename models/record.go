package models

import "strings"

// Section names of a product record. Every record carries all six sections,
// each a map of field name to string value. A section with no known fields is
// an empty map, never absent.
const (
	SectionBasicInfo      = "basic_info"
	SectionPricing        = "pricing"
	SectionDelivery       = "delivery"
	SectionSeller         = "seller"
	SectionSpecifications = "specifications"
	SectionReviews        = "reviews"
)

// SectionNames lists the sections in their canonical order.
var SectionNames = []string{
	SectionBasicInfo,
	SectionPricing,
	SectionDelivery,
	SectionSeller,
	SectionSpecifications,
	SectionReviews,
}

// Field names grouped by section.
const (
	FieldTitle       = "title"
	FieldDescription = "description"

	FieldCurrentPrice = "current_price"
	FieldMRP          = "MRP"
	FieldDiscount     = "discount"
	FieldUnitPrice    = "unit_price"

	FieldAvailability          = "availability"
	FieldEstimatedDeliveryTime = "estimated_delivery_time"
	FieldShippingDetails       = "shipping_details"

	FieldSellerName      = "seller_name"
	FieldShippingOrigin  = "shipping_origin"
	FieldFulfillmentInfo = "fulfillment_info"

	FieldWeight      = "weight"
	FieldDimensions  = "dimensions"
	FieldIngredients = "ingredients"

	FieldSummary = "summary"
)

// QualityScoreKey is the top-level key holding the completeness score. It is
// set exactly once, by the quality scorer, as the final mutation of a record.
const QualityScoreKey = "quality_score"

// ErrorKey flags a record produced by a fatal pipeline failure.
const ErrorKey = "error"

// Record is the structured product data extracted from a page. It mirrors the
// JSON the vision model returns: six section maps of string fields, plus the
// quality score once scoring has run. The accessors below never fail on
// missing sections or fields.
type Record map[string]any

// NewRecord returns an empty record with all six sections present.
func NewRecord() Record {
	r := Record{}
	r.EnsureSections()
	return r
}

// ErrorRecord builds the terminal record for a fatal pipeline failure.
func ErrorRecord(message string) Record {
	return Record{ErrorKey: message}
}

// IsError reports whether the record carries a fatal error instead of data.
func (r Record) IsError() bool {
	_, ok := r[ErrorKey]
	return ok
}

// ErrorMessage returns the fatal error message, or "" for a data record.
func (r Record) ErrorMessage() string {
	msg, _ := r[ErrorKey].(string)
	return msg
}

// EnsureSections adds an empty map for every missing section so field lookups
// and writes never have to care whether the model emitted a section at all.
func (r Record) EnsureSections() {
	for _, name := range SectionNames {
		if _, ok := r[name].(map[string]any); !ok {
			r[name] = map[string]any{}
		}
	}
}

// Section returns the named section map, or nil if absent or not a map.
func (r Record) Section(name string) map[string]any {
	section, _ := r[name].(map[string]any)
	return section
}

// Field returns the trimmed string value of a field, or "" when the section
// or field is missing or holds a non-string value.
func (r Record) Field(section, field string) string {
	s := r.Section(section)
	if s == nil {
		return ""
	}
	value, _ := s[field].(string)
	return strings.TrimSpace(value)
}

// HasField reports whether a field is present with a non-empty string value.
func (r Record) HasField(section, field string) bool {
	return r.Field(section, field) != ""
}

// SetField writes a field value, creating the section map on first write.
func (r Record) SetField(section, field, value string) {
	s := r.Section(section)
	if s == nil {
		s = map[string]any{}
		r[section] = s
	}
	s[field] = strings.TrimSpace(value)
}

// QualityScore returns the computed score, or -1 if scoring has not run.
func (r Record) QualityScore() int {
	switch v := r[QualityScoreKey].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return -1
}
