package prompt

import "strings"

// Variant is a closed enumeration of accessory choices offered at the
// event, plus a designated free-text variant for anything else.
type Variant string

const (
	AccessoryNone        Variant = "none"
	AccessoryGolfClub    Variant = "golf_club"
	AccessoryTennis      Variant = "tennis_racket"
	AccessoryStethoscope Variant = "stethoscope"
	AccessoryBasketball  Variant = "basketball"
	AccessoryCamera      Variant = "camera"
	AccessoryMicrophone  Variant = "microphone"
	AccessoryChefHat     Variant = "chefs_hat"
	AccessoryPaintbrush  Variant = "paintbrush"
	AccessoryLaptop      Variant = "laptop"
	AccessoryInstrument  Variant = "music_instrument"
	AccessoryFreeText    Variant = "free_text"
)

// Accessory is the resolved accessory choice: either a known variant or
// free text carried alongside the AccessoryFreeText tag.
type Accessory struct {
	Variant Variant
	Text    string
}

// propPhrases maps each catalog variant to its fixed two-item prop pair.
var propPhrases = map[Variant]string{
	AccessoryGolfClub:    "a golf club and a golf ball",
	AccessoryTennis:      "a tennis racket and a tennis ball",
	AccessoryStethoscope: "a stethoscope and a doctor's clipboard",
	AccessoryBasketball:  "a basketball and a coach's whistle",
	AccessoryCamera:      "a camera and a tripod",
	AccessoryMicrophone:  "a microphone and a stage stand",
	AccessoryChefHat:     "a chef's hat and a wooden spoon",
	AccessoryPaintbrush:  "an artist's paintbrush and a paint palette",
	AccessoryLaptop:      "a laptop and a coffee mug",
	AccessoryInstrument:  "a guitar and a songbook",
}

// catalogLabels maps the labels shown on the form to variants, so the
// closed choices keep their hand-authored prop pairs while anything else
// falls through to free text.
var catalogLabels = map[string]Variant{
	"none":                AccessoryNone,
	"golf club":           AccessoryGolfClub,
	"tennis racket":       AccessoryTennis,
	"stethoscope":         AccessoryStethoscope,
	"basketball":          AccessoryBasketball,
	"camera":              AccessoryCamera,
	"microphone":          AccessoryMicrophone,
	"chef's hat":          AccessoryChefHat,
	"artist's paintbrush": AccessoryPaintbrush,
	"paintbrush":          AccessoryPaintbrush,
	"laptop":              AccessoryLaptop,
	"music instrument":    AccessoryInstrument,
}

// ParseAccessory resolves raw form input into an Accessory. Blank input
// falls back to defaultValue before resolution, so deployments can choose
// between "" and "None" semantics without touching callers.
func ParseAccessory(input, defaultValue string) Accessory {
	text := strings.TrimSpace(input)
	if text == "" {
		text = strings.TrimSpace(defaultValue)
	}
	if text == "" {
		return Accessory{Variant: AccessoryNone}
	}
	if v, ok := catalogLabels[strings.ToLower(text)]; ok {
		return Accessory{Variant: v}
	}
	return Accessory{Variant: AccessoryFreeText, Text: text}
}

// clause renders the packaging sentence for the accessory choice.
func (a Accessory) clause() string {
	switch a.Variant {
	case AccessoryNone:
		return "No additional accessories are needed - just the figure in a confident heroic pose."
	case AccessoryFreeText:
		return "Include accessories that represent: " + strings.TrimSpace(a.Text) +
			". These should be neatly positioned in the packaging alongside the figure, looking professional and store-ready."
	default:
		return "Include " + propPhrases[a.Variant] +
			" neatly positioned in the packaging alongside the figure, looking professional and store-ready."
	}
}
