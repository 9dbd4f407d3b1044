package prompt

import (
	"fmt"
	"strings"
)

// Mode selects the template family: ModeEdit assumes the subject's photo
// is attached to the request, ModeText generates without a reference photo.
type Mode string

const (
	ModeEdit Mode = "edit"
	ModeText Mode = "text"
)

// SloganLine is the fixed charity message printed on every backing card.
const SloganLine = "I'M TAKING ACTION AGAINST CANCER"

const foundationName = "Expect Miracles"

// Compose renders the full natural-language instruction sent to the image
// model. It is a total function: an empty name still yields a valid
// (degenerate) prompt, and callers are expected to validate names before
// generation is attempted.
func Compose(fullName string, acc Accessory, mode Mode) string {
	if mode == ModeText {
		return composeTextOnly(fullName, acc)
	}
	return composeEdit(fullName, acc)
}

func composeEdit(fullName string, acc Accessory) string {
	lines := []string{
		fmt.Sprintf("Create a realistic, store-ready action figure of a person named %s, based on the attached reference photo.", fullName),
		"The final result should look like a premium collectible toy photographed for retail blister packaging.",
		"",
		"Figure fidelity:",
		"- Maintain exact facial likeness from the attached photo - this is critical.",
		"- Keep the person in their actual clothing from the reference photo, with realistic fabric textures and creases.",
		"- Preserve gender, ethnicity, hair color and style, and all physical characteristics accurately.",
		"- Pose the figure standing, natural and confident, with excellent posture.",
		"- Apply flattering professional retouching: optimized lighting, natural skin, enhanced color.",
		"",
		"Packaging design:",
		"- Vertical hanging blister pack with rounded top corners and a hanging hole at the top center.",
		"- Clear plastic blister in front of a printed backing card; realistic transparency, highlights, and reflections.",
		"- Deep purple (#7b2c85) as the primary backing color with blue accents, light rays, and star-like sparkles.",
		"- Small teal and pink cancer-awareness ribbon icons placed subtly in the design.",
		fmt.Sprintf("- Large bold comic-style title at the top: \"%s: ACTION FIGURE\" with a metallic blue chrome effect.", strings.ToUpper(fullName)),
		fmt.Sprintf("- Below the title, in large white bold comic-style letters: \"%s\".", SloganLine),
		fmt.Sprintf("- \"%s\" in elegant italic script below the main message.", foundationName),
		"- Small \"Ages 8+\" text and a fictional brand logo in the bottom corners.",
		"",
		"Accessories:",
		"- " + acc.clause(),
		"",
		"Photography:",
		"- Professional product shot against a neutral light background, soft even studio lighting, sharp catalog-quality focus.",
		"- Slight shadow beneath the package to ground it realistically.",
		"- Modern 2020s collectible aesthetic, photorealistic finish, purple and blue palette throughout.",
	}
	return strings.Join(lines, "\n")
}

func composeTextOnly(fullName string, acc Accessory) string {
	lines := []string{
		"Create a heroic collectible action figure in retail blister packaging.",
		fmt.Sprintf("The backing card names the hero \"%s\" in bold comic-style lettering.", strings.ToUpper(fullName)),
		fmt.Sprintf("Below the name, in large white bold letters: \"%s\".", SloganLine),
		fmt.Sprintf("Include \"%s\" in elegant italic script on the card.", foundationName),
		"Deep purple and blue packaging with light rays, sparkles, and subtle teal and pink awareness ribbons.",
		acc.clause(),
		"Professional product photography, square composition, soft studio lighting, photorealistic finish.",
	}
	return strings.Join(lines, "\n")
}
