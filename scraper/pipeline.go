package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"prodlens/models"
	"prodlens/translate"
)

// ErrScreenshotMessage is the user-facing message for the one fatal pipeline
// failure: the page could not be rendered and captured.
const ErrScreenshotMessage = "Failed to capture screenshot due to page load timeout."

const topSegmentPrompt = "Extract product title, description, and detailed pricing information (including current price, MRP, discount, and unit price) " +
	"from this image region. Look for indicators like '₹', 'MRP:' and discount percentages. Return structured text in JSON format."

const bottomSegmentPrompt = "Extract details about delivery (availability, estimated delivery time, shipping details), seller information " +
	"(seller name, shipping origin, fulfillment info), product specifications (weight, dimensions, ingredients), " +
	"and a summary of customer reviews and ratings from this image region. Return the output in JSON format."

const structuringPromptFormat = `Based on the following OCR text extracted from a product page:

%s

Extract the product information from the perspective of a buyer. Please return valid JSON with the following keys and use explicit markers where possible:

1. basic_info: { 'title': <product title>, 'description': <detailed description> }
2. pricing: { 'current_price': <current price>, 'MRP': <MRP>, 'discount': <discount>, 'unit_price': <unit price> }
3. delivery: { 'availability': <availability>, 'estimated_delivery_time': <estimated delivery time>, 'shipping_details': <shipping details> }
4. seller: { 'seller_name': <seller name>, 'shipping_origin': <shipping origin>, 'fulfillment_info': <fulfillment info> }
5. specifications: { 'weight': <weight>, 'dimensions': <dimensions>, 'ingredients': <ingredients> }
6. reviews: { 'summary': <summary of customer reviews and ratings> }

Look for explicit markers such as 'MRP:', 'Sold by:', 'Weight:', or 'out of 5 stars'. Return only valid JSON with these keys.`

// Pipeline runs the end-to-end extraction: render the page, OCR both image
// segments, structure the combined text into a record, then repair, translate
// and score it. A renderer failure is fatal; every other external failure
// degrades the result instead of aborting.
type Pipeline struct {
	renderer       Renderer
	extractor      Extractor
	translator     translate.Client
	targetLanguage string
}

// NewPipeline wires the three external capabilities into a pipeline.
func NewPipeline(renderer Renderer, extractor Extractor, translator translate.Client, targetLanguage string) *Pipeline {
	if targetLanguage == "" {
		targetLanguage = "en"
	}
	return &Pipeline{
		renderer:       renderer,
		extractor:      extractor,
		translator:     translator,
		targetLanguage: targetLanguage,
	}
}

// ExtractProductDetails runs the full pipeline for one URL and returns the
// final record together with the raw combined OCR text. On a fatal render
// failure the record carries only the error message and the raw text is
// empty.
func (p *Pipeline) ExtractProductDetails(ctx context.Context, url string) (models.Record, string) {
	log.Printf("🔍 Starting product extraction for: %s", url)

	screenshot, err := p.renderer.CaptureFullPage(ctx, url)
	if err != nil {
		log.Printf("❌ Screenshot capture failed: %v", err)
		return models.ErrorRecord(ErrScreenshotMessage), ""
	}

	top, bottom, err := SplitVertical(screenshot)
	if err != nil {
		log.Printf("❌ Screenshot segmentation failed: %v", err)
		return models.ErrorRecord(ErrScreenshotMessage), ""
	}

	rawText := p.extractSegments(ctx, top, bottom)
	log.Printf("📝 Combined OCR text: %d bytes", len(rawText))

	record := p.structureRawText(ctx, rawText)
	record = Augment(record, rawText)
	record = p.translateRecord(ctx, record)
	record = Score(record)

	log.Printf("✅ Extraction complete for %s (quality score: %d)", url, record.QualityScore())
	return record, rawText
}

// extractSegments OCRs the two image segments and joins the results with a
// newline. The two calls are independent and run concurrently; a failed
// segment contributes an empty string rather than failing the pipeline.
func (p *Pipeline) extractSegments(ctx context.Context, top, bottom []byte) string {
	type segmentResult struct {
		name string
		text string
	}

	run := func(name, instruction string, image []byte, out chan<- segmentResult) {
		text, err := p.extractor.Extract(ctx, instruction, image)
		if err != nil {
			log.Printf("⚠️ OCR failed for %s segment: %v", name, err)
			text = ""
		}
		out <- segmentResult{name: name, text: text}
	}

	topCh := make(chan segmentResult, 1)
	bottomCh := make(chan segmentResult, 1)
	go run("top", topSegmentPrompt, top, topCh)
	go run("bottom", bottomSegmentPrompt, bottom, bottomCh)

	topText := (<-topCh).text
	bottomText := (<-bottomCh).text
	return topText + "\n" + bottomText
}

// structureRawText asks the model to reshape the raw OCR text into the
// six-section JSON record. The model output is untrusted: code fences are
// stripped, and anything unparseable falls back to an empty record so the
// deterministic augmenter still gets its pass.
func (p *Pipeline) structureRawText(ctx context.Context, rawText string) models.Record {
	prompt := fmt.Sprintf(structuringPromptFormat, rawText)

	response, err := p.extractor.Extract(ctx, prompt, nil)
	if err != nil {
		log.Printf("⚠️ Structuring call failed, continuing with empty record: %v", err)
		return models.NewRecord()
	}

	cleaned := CleanJSONResponse(response)
	record := models.Record{}
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		log.Printf("⚠️ Structuring output is not valid JSON, continuing with empty record: %v", err)
		record = models.Record{}
	}
	record.EnsureSections()
	return record
}

// translateRecord normalizes every string field into the target language,
// preserving the record's structure.
func (p *Pipeline) translateRecord(ctx context.Context, record models.Record) models.Record {
	translated := translate.Value(ctx, p.translator, map[string]any(record), p.targetLanguage)
	if out, ok := translated.(map[string]any); ok {
		return models.Record(out)
	}
	return record
}

// CleanJSONResponse strips surrounding markdown code fences and an optional
// leading "json" language label from a model response.
func CleanJSONResponse(text string) string {
	cleaned := strings.Trim(text, "` \n")
	if len(cleaned) >= 4 && strings.EqualFold(cleaned[:4], "json") {
		cleaned = strings.TrimSpace(cleaned[4:])
	}
	return cleaned
}
