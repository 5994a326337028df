package prompt

import (
	"fmt"
	"strings"
)

// garmentRules is the non-negotiable block keeping prints and colors faithful
// across otherwise independent generation calls.
const garmentRules = `=== THE GARMENT (CRITICAL - EXACT REPRODUCTION) ===
The model MUST wear EXACTLY the garment from the reference image:
- Preserve 100% of graphic prints, logos, text, patterns - NO modifications
- Exact color reproduction - match reference perfectly
- Natural fabric draping, realistic wrinkles and folds`

func modelBlock(category, skinTone, bodyType string) string {
	spec, ok := ModelConfig[category]
	if !ok {
		spec = ModelConfig["teen_boy"]
	}
	skin, ok := SkinTones[skinTone]
	if !ok {
		skin = SkinTones["fair"]
	}
	build := bodyType
	if build == "" {
		build = spec.DefaultBuild
	}
	return fmt.Sprintf(`=== THE MODEL ===
Subject: %s, %s
Skin: %s
Build: %s
Hair: well-styled, fashionable, photo-ready
Expression: natural, confident, professional model expression`, spec.Description, spec.AgeRange, skin, build)
}

func themeBlock(theme ThemeSpec) string {
	return fmt.Sprintf(`=== THEME ===
Background: %s
Lighting: %s
Mood: %s
%s`, theme.Background, theme.Lighting, theme.Mood, theme.Camera)
}

func lookup(table map[string]string, key, fallback string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return table[fallback]
}

// PhotoParams controls a simple virtual try-on photo.
type PhotoParams struct {
	Category          string
	View              string // front or back
	SkinTone          string
	HairType          string
	BodyType          string
	ShotAngle         string
	PoseType          string
	CreativeDirection string
}

// ModelPhoto renders the prompt for a plain catalog try-on photo.
func ModelPhoto(p PhotoParams) string {
	var b strings.Builder
	b.WriteString("Generate a PHOTOREALISTIC high-resolution fashion catalog photograph.\n")
	b.WriteString("Shot on professional medium format camera with 85mm f/1.8 lens. Exceptional sharpness.\n\n")
	b.WriteString(modelBlock(p.Category, p.SkinTone, p.BodyType))
	if p.HairType != "" {
		fmt.Fprintf(&b, "\nHair override: %s, professionally styled", p.HairType)
	}
	fmt.Fprintf(&b, "\n\n=== CAMERA & COMPOSITION ===\nView: %s view of the model\nCamera Angle: %s\nPose: %s\n",
		p.View,
		lookup(ShotAngles, p.ShotAngle, "front_facing"),
		lookup(PoseTypes, p.PoseType, "catalog_standard"))
	b.WriteString("Framing: full body shot, head to toe visible with small margin\n")
	b.WriteString("Background: pure white (#FFFFFF) seamless studio backdrop\n\n")
	b.WriteString(garmentRules)
	if p.CreativeDirection != "" {
		fmt.Fprintf(&b, "\n\nADDITIONAL DIRECTION: %s", p.CreativeDirection)
	}
	b.WriteString("\n\nOutput: single photorealistic image of the model wearing this exact garment.")
	return b.String()
}

// PosterParams controls a marketing poster generation.
type PosterParams struct {
	Category    string
	SkinTone    string
	BodyType    string
	Theme       string
	Prop        string
	PoseType    string
	ShotAngle   string
	LayoutStyle string
	StylePreset string
	Texts       map[string]string // headline, subtext, brand, price, cta, tagline
}

// MarketingPoster renders the prompt for a complete advertisement page. Text
// is rendered by the model directly, so the exact wording is spelled out.
func MarketingPoster(p PosterParams) string {
	theme := ThemeOrDefault(p.Theme)
	layout, ok := LayoutConfigs[p.LayoutStyle]
	if !ok {
		layout = LayoutConfigs["hero_bottom"]
	}

	var b strings.Builder
	b.WriteString("You are a world-class Fashion Art Director and Commercial Photographer.\n")
	b.WriteString("Generate a STUNNING HIGH-RESOLUTION MARKETING POSTER / ADVERTISEMENT.\n")
	b.WriteString(theme.Camera)
	b.WriteString("\n\n=== COMPOSITION & LAYOUT ===\n")
	fmt.Fprintf(&b, "Layout: %s - %s\n", layout.Name, layout.Preview)
	fmt.Fprintf(&b, "Background: %s\nLighting: %s\nMood: %s\n\n", theme.Background, theme.Lighting, theme.Mood)
	b.WriteString(modelBlock(p.Category, p.SkinTone, p.BodyType))
	fmt.Fprintf(&b, "\nPose: %s\nCamera Angle: %s\nProps/Styling: %s\n\n",
		lookup(PoseTypes, p.PoseType, "catalog_standard"),
		lookup(ShotAngles, p.ShotAngle, "front_facing"),
		lookup(PropInteraction, p.Prop, "none"))
	b.WriteString(garmentRules)
	if text := textLines(p.Texts); text != "" {
		b.WriteString("\n\n=== TEXT TO RENDER (EXACT SPELLING) ===\n")
		b.WriteString(text)
	}
	if preset, ok := StylePresets[p.StylePreset]; ok && preset.PromptAddon != "" {
		b.WriteString("\n\n")
		b.WriteString(preset.PromptAddon)
	}
	b.WriteString("\n\nResolution: print-ready quality, razor-sharp focus, rich commercial color.")
	return b.String()
}

// PageParams controls one planned catalog content page.
type PageParams struct {
	Category       string
	SkinTone       string
	BodyType       string
	Theme          string
	CollectionName string
	PageNumber     int
	Pose           string
	Prop           string
	Layout         string
}

// CollagePage renders the prompt for a front+back collage page: both garment
// views composited into one output, which is what makes collage pages cheap.
func CollagePage(p PageParams) string {
	theme := ThemeOrDefault(p.Theme)
	var b strings.Builder
	b.WriteString("You are a world-class Fashion Photographer creating a PREMIUM CATALOG PAGE.\n\n")
	b.WriteString(garmentRules)
	fmt.Fprintf(&b, "\n\nPAGE %d - FRONT + BACK COLLAGE\n", p.PageNumber)
	b.WriteString("Two reference images are provided: the garment FRONT and the garment BACK.\n")
	b.WriteString("Compose a single editorial collage page showing the SAME model twice:\n")
	b.WriteString("- Left/foreground: model wearing the garment, front view\n")
	b.WriteString("- Right/background: model from behind, showing the garment back\n")
	b.WriteString("Both figures share identical garment, lighting and setting.\n\n")
	b.WriteString(modelBlock(p.Category, p.SkinTone, p.BodyType))
	fmt.Fprintf(&b, "\nPose: %s\nProps/Styling: %s\n\n",
		lookup(PoseTypes, p.Pose, "catalog_standard"),
		lookup(PropInteraction, p.Prop, "none"))
	if layout, ok := LayoutConfigs[p.Layout]; ok {
		fmt.Fprintf(&b, "Layout: %s - %s\n\n", layout.Name, layout.Preview)
	}
	b.WriteString(themeBlock(theme))
	fmt.Fprintf(&b, "\n\nSmall elegant caption: \"%s\"", p.CollectionName)
	return b.String()
}

// FabricCloseup renders the prompt for the texture detail page.
func FabricCloseup(p PageParams) string {
	theme := ThemeOrDefault(p.Theme)
	var b strings.Builder
	b.WriteString("Generate an EXTREME MACRO FABRIC PHOTOGRAPH for a premium fashion catalog.\n\n")
	b.WriteString("Use the reference garment image. Show its fabric weave, texture and stitch\n")
	b.WriteString("detail filling the frame. No model, no full garment - texture only.\n")
	b.WriteString("- Preserve the exact colors and any visible print fragments\n")
	b.WriteString("- Shallow depth of field, studio macro lens quality\n\n")
	b.WriteString(themeBlock(theme))
	fmt.Fprintf(&b, "\n\nPAGE %d - FABRIC DETAIL, caption: \"%s\"", p.PageNumber, p.CollectionName)
	return b.String()
}

// SinglePage renders the prompt for a one-view content page.
func SinglePage(p PageParams, view string) string {
	theme := ThemeOrDefault(p.Theme)
	angle := "front_facing"
	if view == "back" {
		angle = "back_view"
	}
	var b strings.Builder
	b.WriteString("You are a world-class Fashion Photographer creating a PREMIUM CATALOG PAGE.\n\n")
	b.WriteString(garmentRules)
	fmt.Fprintf(&b, "\n\nPAGE %d - %s VIEW\n\n", p.PageNumber, strings.ToUpper(view))
	b.WriteString(modelBlock(p.Category, p.SkinTone, p.BodyType))
	fmt.Fprintf(&b, "\nView: %s\nPose: %s\nProps/Styling: %s\n\n",
		lookup(ShotAngles, angle, "front_facing"),
		lookup(PoseTypes, p.Pose, "catalog_standard"),
		lookup(PropInteraction, p.Prop, "none"))
	if layout, ok := LayoutConfigs[p.Layout]; ok {
		fmt.Fprintf(&b, "Layout: %s - %s\n\n", layout.Name, layout.Preview)
	}
	b.WriteString(themeBlock(theme))
	fmt.Fprintf(&b, "\n\nSmall elegant caption: \"%s\"", p.CollectionName)
	return b.String()
}

// CoverParams controls the catalog cover page.
type CoverParams struct {
	CollectionName   string
	CollectionNumber string
	Theme            string
	Tagline          string
	Season           string
	Year             string
}

// Cover renders the prompt for the branding cover page. No model appears.
func Cover(p CoverParams) string {
	theme := ThemeOrDefault(p.Theme)
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a STUNNING CATALOG COVER PAGE for \"%s\".\n\n", p.CollectionName)
	b.WriteString("This is a COVER PAGE - NO MODEL, just branding.\n")
	b.WriteString("- Collection name large and prominent, elegant fashion typography\n")
	if p.CollectionNumber != "" {
		fmt.Fprintf(&b, "- Collection number: %s\n", p.CollectionNumber)
	}
	if p.Tagline != "" {
		fmt.Fprintf(&b, "- Tagline: \"%s\"\n", p.Tagline)
	}
	if p.Season != "" || p.Year != "" {
		fmt.Fprintf(&b, "- Season line: %s %s\n", p.Season, p.Year)
	}
	fmt.Fprintf(&b, "- Theme: %s\n- Mood: %s\n", theme.Background, theme.Mood)
	b.WriteString("- Professional, high-end fashion catalog quality\n")
	b.WriteString("If a logo reference image is provided, place it tastefully near the masthead.")
	return b.String()
}

// ThankYouParams controls the closing page.
type ThankYouParams struct {
	CollectionName string
	Theme          string
	Contact        Contact
	ProductCount   int
}

// ThankYou renders the prompt for the closing page with the contact block.
// Up to six garment reference images accompany it for a small footer collage.
func ThankYou(p ThankYouParams) string {
	theme := ThemeOrDefault(p.Theme)
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a beautiful THANK YOU page closing the \"%s\" catalog.\n\n", p.CollectionName)
	b.WriteString("- Elegant \"Thank You\" text and the collection name\n")
	if p.ProductCount > 0 {
		fmt.Fprintf(&b, "- A small tasteful footer collage of the %d provided garment images\n", p.ProductCount)
	}
	fmt.Fprintf(&b, "- Theme: %s\n- NO MODEL in this image\n\n", theme.Background)
	b.WriteString("=== CONTACT BLOCK (EXACT SPELLING) ===\n")
	fmt.Fprintf(&b, "%s\n%s | %s\n%s\n%s\n", p.Contact.Company, p.Contact.Email, p.Contact.Phone, p.Contact.Address, p.Contact.Website)
	return b.String()
}

func textLines(texts map[string]string) string {
	order := []string{"brand", "headline", "subtext", "price", "cta", "tagline"}
	var lines []string
	for _, key := range order {
		if v := strings.TrimSpace(texts[key]); v != "" {
			lines = append(lines, fmt.Sprintf("%s: \"%s\"", key, v))
		}
	}
	return strings.Join(lines, "\n")
}
