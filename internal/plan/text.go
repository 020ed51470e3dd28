package plan

import "html"

// DecodeText resolves HTML character entities in a raw payload field.
// Decoding is total: unrecognized entities pass through literally.
// Every free-text field goes through this before further parsing.
func DecodeText(raw string) string {
	return html.UnescapeString(raw)
}
