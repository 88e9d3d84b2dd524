package scraper

import (
	"log"

	"prodlens/models"
)

// Augment fills gaps in a record from the raw OCR text using the deterministic
// pattern rules. Fill rules only touch fields that are currently empty; the
// override rules may replace a populated value. Augmentation mutates and
// returns the record, never fails, and makes no external calls: a rule that
// finds nothing, or blows up internally, simply leaves its field alone.
func Augment(record models.Record, rawText string) models.Record {
	if record == nil {
		record = models.NewRecord()
	}

	for _, rule := range FillRules() {
		if record.HasField(rule.Section, rule.Field) {
			continue
		}
		if value := runRule(rule, record, rawText); value != "" {
			record.SetField(rule.Section, rule.Field, value)
		}
	}

	for _, rule := range OverrideRules() {
		if value := runRule(rule, record, rawText); value != "" {
			record.SetField(rule.Section, rule.Field, value)
		}
	}

	return record
}

// runRule executes a single rule, absorbing any internal panic so one broken
// rule cannot take down the rest of the augmentation pass.
func runRule(rule Rule, record models.Record, rawText string) (value string) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("⚠️ Augment rule %s.%s failed: %v", rule.Section, rule.Field, err)
			value = ""
		}
	}()
	return rule.Extract(record, rawText)
}
