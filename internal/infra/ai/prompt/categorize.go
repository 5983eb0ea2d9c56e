package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a document sensitivity analyst. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- category must be one of: pii, financial, legal, confidential, none.
- confidence_score is a number between 0 and 1.
- key_topics is an array of short lowercase strings describing what was found.
- Be conservative: when nothing sensitive is apparent, use category "none" with confidence 0.

Schema (example with empty values):
{
  "category": "<pii|financial|legal|confidential|none>",
  "confidence_score": 0.0,
  "explanation": "<string>",
  "key_topics": ["<string>"]
}`
}

// GetUserPrompt builds a compact user message around one file.
func GetUserPrompt(filename, mimeType string) string {
	return fmt.Sprintf("Classify the sensitivity of this file and respond with the JSON per schema. Filename: %s MimeType: %s", filename, mimeType)
}
