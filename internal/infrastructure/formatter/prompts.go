package formatter

import (
	"fmt"
	"strings"

	"propupkeep/internal/ports"
)

const teamBriefSystemPrompt = `You are a Real Estate Operations Specialist transforming internal field notes into structured Issue Reports.

High-fidelity rule (critical):
- Preserve all user-provided facts exactly where possible.
- Do NOT substitute key entities (building/unit IDs, locations, numbers, animal types, people labels, asset names).
- If details are missing, unknown, or not stated, do not invent them.
- Use null/Unknown semantics and ask concise follow-up questions instead of guessing.

Classification goals:
- Urgency: one of High, Medium, Low, Unknown
- Category: one of Safety, Plumbing, Electrical, HVAC, Appliance, Cosmetic, General, Unknown
- Recommended Action: practical next steps for maintenance/management
- reported_observation: close-to-verbatim restatement of what user reported`

const jsonOutputInstructions = `Return ONLY a valid JSON object with exactly these keys:
- issue (string)
- reported_observation (string)
- urgency (string: High | Medium | Low | Unknown)
- category (string: Safety | Plumbing | Electrical | HVAC | Appliance | Cosmetic | General | Unknown)
- recommended_action (string)
- extracted_entities (object with keys location_terms, people_terms, asset_terms, animal_terms, quantity_terms; each value is an array of strings)
- confidence (object with keys category and urgency; each is a float between 0.0 and 1.0)
- needs_followup (boolean)
- followup_questions (array of strings; must be non-empty when needs_followup is true)
- photo_observation (string or null)

Never include markdown, code fences, comments, or extra keys.`

// buildUserPrompt lists every submission fact verbatim so the model has
// nothing to invent.
func buildUserPrompt(req ports.FormatRequest) string {
	noteBlock := req.NoteText
	if noteBlock == "" {
		noteBlock = "[none provided]"
	}
	imageName := req.ImageFilename
	if imageName == "" {
		imageName = "[none provided]"
	}
	area := req.Metadata.Area
	if area == "" {
		area = "Unknown"
	}

	var b strings.Builder
	b.WriteString("Create a structured Issue Report for property operations.\n")
	b.WriteString("Preserve factual entities exactly as reported.\n")
	b.WriteString("If facts are missing, use Unknown and set needs_followup=true with questions.\n\n")
	b.WriteString("Submission Facts (must preserve):\n")
	fmt.Fprintf(&b, "- source: %s\n", req.Source)
	fmt.Fprintf(&b, "- property_name: %s\n", req.Metadata.PropertyName)
	fmt.Fprintf(&b, "- building: %s\n", req.Metadata.Building)
	fmt.Fprintf(&b, "- unit_number: %s\n", req.Metadata.UnitNumber)
	fmt.Fprintf(&b, "- area: %s\n", area)
	fmt.Fprintf(&b, "- note_text: %s\n", noteBlock)
	fmt.Fprintf(&b, "- image_filename: %s\n", imageName)
	fmt.Fprintf(&b, "- image_bytes_length: %d\n", len(req.ImageBytes))
	if req.ImageMime != "" {
		fmt.Fprintf(&b, "- image_mime: %s\n", req.ImageMime)
	}
	b.WriteString("\nWhen source is photo and note_text is empty, rely on filename/metadata only and ask follow-up questions as needed.")
	return b.String()
}

// buildRepairPrompt asks the model to fix structure without touching the
// reported facts. It restates the submission, the invalid output, and the
// validation error so the repair has full context.
func buildRepairPrompt(req ports.FormatRequest, invalidOutput string, validationError string) string {
	var b strings.Builder
	b.WriteString("Your previous answer failed JSON validation.\n")
	b.WriteString("Repair the output to satisfy the exact schema requirements.\n")
	b.WriteString("Do not change the core meaning or user-stated facts.\n\n")
	b.WriteString(buildUserPrompt(req))
	b.WriteString("\n\nInvalid Output:\n")
	b.WriteString(invalidOutput)
	b.WriteString("\n\nValidation Error:\n")
	b.WriteString(validationError)
	b.WriteString("\n\n")
	b.WriteString(jsonOutputInstructions)
	return b.String()
}
