package enhance

import (
	"fmt"
	"strings"
)

// preserveInstruction anchors every enhancement prompt. The product must stay
// recognizable; only presentation may change.
const preserveInstruction = "Enhance this product photograph for a marketplace listing. " +
	"Preserve the exact appearance of the product: its shape, proportions, colors, surface texture, " +
	"and any maker's marks or motifs must remain untouched. Improve only lighting, background, and composition."

// categoryGuidance maps each catalog category to photographic direction. The
// empty key is the generic fallback for unknown categories.
var categoryGuidance = map[string]string{
	"pottery & ceramics":   "Place the piece on a natural stone or linen surface with soft window light that brings out the glaze and clay texture.",
	"textiles & weaving":   "Drape the fabric to show its weave and pattern, with warm diffused light and a neutral backdrop that makes the colors sing.",
	"jewelry":              "Use a dark velvet or matte surface with focused light so the metalwork and stones catch controlled highlights.",
	"woodwork":             "Set the piece against a warm, softly blurred workshop backdrop that emphasizes the grain and finish of the wood.",
	"metal craft":          "Use directional light on a plain dark background so engraving and hammered textures read clearly without glare.",
	"paintings & folk art": "Photograph straight-on under even gallery lighting with a clean wall backdrop and no reflections.",
	"leather goods":        "Stage on raw wood or canvas with warm side lighting that emphasizes stitching and the character of the leather.",
	"":                     "Use a clean, softly lit studio setting with a neutral background that keeps full attention on the product.",
}

// BuildPrompt composes the per-image enhancement instruction: the fixed
// preserve-appearance directive, category-specific staging guidance, and the
// artisan's own description of the piece.
func BuildPrompt(productName, category, notes string) string {
	guidance, ok := categoryGuidance[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		guidance = categoryGuidance[""]
	}

	var b strings.Builder
	b.WriteString(preserveInstruction)
	b.WriteString("\n")
	b.WriteString(guidance)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Product: %s. Category: %s.", strings.TrimSpace(productName), strings.TrimSpace(category))
	if n := strings.TrimSpace(notes); n != "" {
		fmt.Fprintf(&b, " Artisan's description: %s", n)
	}
	return b.String()
}
