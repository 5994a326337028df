package prompt

// The tables below are configuration data for prompt assembly. Wording is
// tuned by hand against real generations; treat edits as product changes.

// ModelSpec describes the model demographic injected into every prompt.
type ModelSpec struct {
	Description  string
	AgeRange     string
	DefaultBuild string
}

// ModelConfig maps a garment category to its model demographic.
var ModelConfig = map[string]ModelSpec{
	"men":         {"adult Indian male", "25-35 years old", "athletic build"},
	"women":       {"adult Indian female", "25-35 years old", "slim build"},
	"teen_boy":    {"Indian teenage boy", "14-18 years old", "lean athletic build"},
	"teen_girl":   {"Indian teenage girl", "14-18 years old", "slim build"},
	"infant_boy":  {"young Indian boy child", "6-10 years old", "child proportions"},
	"infant_girl": {"young Indian girl child", "6-10 years old", "child proportions"},
}

// SkinTones expands a tone selector into the descriptive phrase the image
// model responds to best.
var SkinTones = map[string]string{
	"fair":        "fair North Indian skin tone, light porcelain complexion, glowing healthy skin",
	"light":       "light wheat complexion, warm golden undertones, clear skin",
	"wheatish":    "wheatish skin tone, classic Indian complexion, warm golden-olive undertones",
	"medium":      "medium brown Indian skin tone, warm olive undertones, even complexion",
	"dark brown":  "dark brown skin tone, South Indian complexion, rich melanin, radiant skin",
	"deep":        "deep dark skin tone, beautiful ebony complexion, luminous skin",
}

// PoseTypes describes how the model stands or moves.
var PoseTypes = map[string]string{
	"catalog_standard":   "classic catalog pose, standing straight with hands relaxed at sides, confident shoulders-back stance",
	"hands_on_hips":      "power pose with hands firmly on hips, elbows out, weight on one leg",
	"hands_in_pockets":   "relaxed stance with both hands in pockets, weight shifted to one leg, casual cool demeanor",
	"arms_crossed":       "arms crossed casually across chest, relaxed confident stance, slight head tilt",
	"walking":            "mid-stride walking pose, one leg forward, natural arm swing, captured motion",
	"leaning_wall":       "leaning casually against a wall, one foot flat against wall, cool relaxed vibe",
	"sitting_stool":      "sitting on a high stool, one foot on footrest, leaning slightly forward",
	"editorial_dramatic": "high-fashion editorial pose, dramatic angle, one hand touching face or hair, intense gaze",
}

// ShotAngles describes camera placement.
var ShotAngles = map[string]string{
	"front_facing":  "facing directly towards camera, straight-on shot, direct eye contact, symmetrical framing",
	"three_quarter": "3/4 angle view, body turned 30-45 degrees, one shoulder closer to camera, dynamic depth",
	"side_profile":  "full side profile view, body turned 90 degrees, showcasing garment silhouette",
	"low_angle":     "low angle hero shot, camera looking up at model, powerful commanding presence",
	"back_view":     "shot from behind, showing back of garment cleanly, head turned slightly",
}

// PropInteraction describes optional styling props.
var PropInteraction = map[string]string{
	"none":       "no props, hands naturally positioned - in pockets, at sides, or arms crossed",
	"sunglasses": "wearing stylish sunglasses (aviators or wayfarers), cool mysterious vibe",
	"cap":        "wearing a trendy baseball cap, brim slightly to the side, street style",
	"watch":      "visible luxury wristwatch, wrist positioned to show watch prominently",
	"headphones": "wearing over-ear headphones around neck, music lover vibe",
	"backpack":   "wearing a trendy backpack on one shoulder, urban street style",
	"skateboard": "standing with one foot on skateboard, street style cool",
}

// ThemeSpec groups the visual parameters of a marketing theme.
type ThemeSpec struct {
	Background string
	Lighting   string
	Mood       string
	Camera     string
}

// Themes maps a theme selector to its visual treatment.
var Themes = map[string]ThemeSpec{
	"studio_minimal": {
		Background: "clean pure white seamless studio backdrop with subtle shadows",
		Lighting:   "professional soft diffused studio lighting, beauty dish key light, no harsh shadows",
		Mood:       "clean, minimal, premium commercial catalog",
		Camera:     "shot on Sony A7R IV with 85mm f/1.4 lens, crisp sharp focus",
	},
	"varsity_locker": {
		Background: "high-school locker room setting with navy blue metal lockers, polished floor",
		Lighting:   "cinematic high-contrast lighting, strong rim lights, cool blue tones",
		Mood:       "energetic, athletic, youthful, sporty cool",
		Camera:     "shot on Canon 5D Mark IV, 50mm lens, dramatic lighting",
	},
	"urban_street": {
		Background: "urban street setting with graffiti walls, concrete textures, city environment",
		Lighting:   "natural golden hour lighting, warm tones, authentic street photography",
		Mood:       "edgy, street style, raw urban cool, authentic",
		Camera:     "shot on Fuji X-T4, 35mm lens, film grain aesthetic",
	},
	"industrial": {
		Background: "industrial warehouse setting with exposed brick, metal beams, raw textures",
		Lighting:   "moody directional lighting, dramatic shadows, industrial feel",
		Mood:       "edgy, raw, urban industrial, fashion forward",
		Camera:     "shot with dramatic contrast, selective focus",
	},
	"nature_outdoor": {
		Background: "natural outdoor setting with soft bokeh foliage background",
		Lighting:   "soft natural daylight, golden hour warmth",
		Mood:       "fresh, natural, organic, lifestyle",
		Camera:     "shot at f/2.8, beautiful background blur",
	},
	"neon_night": {
		Background: "night city setting with neon lights, urban nightlife atmosphere",
		Lighting:   "neon colored lighting, pink and blue tones, night photography",
		Mood:       "nightlife, edgy, modern, vibrant energy",
		Camera:     "high ISO night photography, neon glow effects",
	},
}

// ThemeOrDefault resolves a theme selector, falling back to studio_minimal.
func ThemeOrDefault(name string) ThemeSpec {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Themes["studio_minimal"]
}

// LayoutConfig documents a page layout for the configuration dump endpoints.
type LayoutConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TextFields  []string `json:"text_fields"`
	Preview     string   `json:"preview"`
}

// LayoutConfigs is served verbatim by GET /api/layouts.
var LayoutConfigs = map[string]LayoutConfig{
	"hero_bottom": {
		Name:        "Hero Bottom",
		Description: "Large headline at bottom, model above",
		TextFields:  []string{"headline", "subtext"},
		Preview:     "Model takes 70% of image, bold headline at bottom 30%",
	},
	"split_vertical": {
		Name:        "Split Vertical",
		Description: "Image left, text panel right",
		TextFields:  []string{"headline", "subtext", "price"},
		Preview:     "50/50 split - model on left, clean text panel on right",
	},
	"magazine_cover": {
		Name:        "Magazine Cover",
		Description: "Title at top, model center, details at bottom",
		TextFields:  []string{"brand", "headline", "subtext"},
		Preview:     "Classic magazine style with brand masthead",
	},
	"overlay_gradient": {
		Name:        "Overlay Gradient",
		Description: "Gradient overlay with text on image",
		TextFields:  []string{"headline", "subtext", "cta"},
		Preview:     "Full-bleed image with gradient text overlay",
	},
	"framed_border": {
		Name:        "Framed Border",
		Description: "White border frame around image",
		TextFields:  []string{"headline", "subtext"},
		Preview:     "Image with elegant white border and text below",
	},
	"product_focus": {
		Name:        "Product Focus",
		Description: "Clean, product-centric catalog style",
		TextFields:  []string{"headline", "price", "sizes"},
		Preview:     "E-commerce style with product details",
	},
	"lookbook_spread": {
		Name:        "Lookbook Spread",
		Description: "Editorial lookbook with multiple elements",
		TextFields:  []string{"brand", "headline", "subtext", "price"},
		Preview:     "Rich editorial with all text elements",
	},
	"centered_minimal": {
		Name:        "Centered Minimal",
		Description: "Model centered, text above and below",
		TextFields:  []string{"brand", "headline"},
		Preview:     "Balanced, gallery-style presentation",
	},
}

// StylePreset bundles pose, angle, theme and layout into a named look.
type StylePreset struct {
	Description string `json:"description"`
	Pose        string `json:"pose"`
	Angle       string `json:"angle"`
	Theme       string `json:"theme"`
	Layout      string `json:"layout"`
	PromptAddon string `json:"-"`
}

// StylePresets offers one-selector looks for the interactive endpoint.
var StylePresets = map[string]StylePreset{
	"editorial_high_fashion": {
		Description: "High-end fashion editorial style",
		Pose:        "editorial_dramatic",
		Angle:       "three_quarter",
		Theme:       "studio_minimal",
		Layout:      "magazine_cover",
		PromptAddon: "High-fashion editorial photography. Dramatic lighting. Shot for Vogue or GQ.",
	},
	"street_urban": {
		Description: "Urban streetwear photography",
		Pose:        "leaning_wall",
		Angle:       "low_angle",
		Theme:       "urban_street",
		Layout:      "overlay_gradient",
		PromptAddon: "Authentic street photography vibe. Raw urban energy. Hypebeast aesthetic.",
	},
	"catalog_clean": {
		Description: "Clean e-commerce catalog style",
		Pose:        "catalog_standard",
		Angle:       "front_facing",
		Theme:       "studio_minimal",
		Layout:      "centered_minimal",
		PromptAddon: "Clean, crisp e-commerce photography. Crystal clear product focus.",
	},
	"sporty_athletic": {
		Description: "Athletic sportswear style",
		Pose:        "walking",
		Angle:       "low_angle",
		Theme:       "varsity_locker",
		Layout:      "hero_bottom",
		PromptAddon: "Dynamic athletic photography. Energy and movement. Shot like a sportswear campaign.",
	},
}

// Cycling tables give catalog pages visual variety without extra input: the
// planner indexes into these modulo their length.

// CatalogPoses is the pose rotation for catalog content pages.
var CatalogPoses = []string{"catalog_standard", "hands_on_hips", "hands_in_pockets", "arms_crossed", "walking", "leaning_wall", "editorial_dramatic"}

// CatalogProps is the prop rotation for catalog content pages.
var CatalogProps = []string{"none", "sunglasses", "cap", "watch", "headphones"}

// CatalogLayouts is the layout rotation for catalog content pages.
var CatalogLayouts = []string{"hero_bottom", "split_vertical", "magazine_cover", "overlay_gradient", "framed_border", "product_focus", "lookbook_spread"}

// Contact is the block printed on the thank-you page.
type Contact struct {
	Company string
	Email   string
	Phone   string
	Address string
	Website string
}

// DefaultContact is the brand contact block for generated catalogs.
var DefaultContact = Contact{
	Company: "BONOSTYLE CREATIONS LLP",
	Email:   "contact@bonostyle.in",
	Phone:   "(+91) 9789116300",
	Address: "3238C, 2nd Street, P.N Road, Anna Nagar, Tiruppur, Tamil Nadu - 641602",
	Website: "bonostyle.in",
}
