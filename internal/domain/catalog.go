package domain

// Category enumerates the supported model demographics.
type Category string

const (
	CategoryMen        Category = "men"
	CategoryWomen      Category = "women"
	CategoryTeenBoy    Category = "teen_boy"
	CategoryTeenGirl   Category = "teen_girl"
	CategoryInfantBoy  Category = "infant_boy"
	CategoryInfantGirl Category = "infant_girl"
)

// Valid reports whether the category is one of the known demographics.
func (c Category) Valid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryTeenBoy, CategoryTeenGirl, CategoryInfantBoy, CategoryInfantGirl:
		return true
	}
	return false
}

// QualityTier selects the requested output resolution. The *_UPSCALE tiers
// request the base resolution from the API and enlarge locally afterwards.
type QualityTier string

const (
	Tier1K        QualityTier = "1K"
	Tier2K        QualityTier = "2K"
	Tier4K        QualityTier = "4K"
	Tier2KUpscale QualityTier = "2K_UPSCALE"
	Tier4KUpscale QualityTier = "4K_UPSCALE"
)

// Valid reports whether the tier is a supported selector.
func (t QualityTier) Valid() bool {
	switch t {
	case Tier1K, Tier2K, Tier4K, Tier2KUpscale, Tier4KUpscale:
		return true
	}
	return false
}

// Base returns the image size requested from the generation API.
func (t QualityTier) Base() string {
	switch t {
	case Tier1K:
		return "1K"
	case Tier4K, Tier4KUpscale:
		return "4K"
	default:
		return "2K"
	}
}

// UpscaleTarget returns the local upscale target, or "" when the tier is
// served natively by the API.
func (t QualityTier) UpscaleTarget() string {
	switch t {
	case Tier2KUpscale:
		return "4K"
	case Tier4KUpscale:
		return "8K"
	default:
		return ""
	}
}

// Product pairs the two garment views uploaded for one catalog item.
type Product struct {
	Front []byte
	Back  []byte
}

// TextContent carries the optional marketing copy folded into cover and
// thank-you prompts. All fields may be empty.
type TextContent struct {
	Tagline      string
	Season       string
	Year         string
	PriceRange   string
	Fabric       string
	BrandMessage string
	Custom1      string
	Custom2      string
	Custom3      string
	Custom4      string
}

// CatalogRequest is the validated input for one catalog job.
type CatalogRequest struct {
	Category         Category
	CollectionName   string
	CollectionNumber string
	Theme            string
	SkinTone         string
	BodyType         string
	Quality          QualityTier
	Texts            TextContent
	Products         []Product
	Logo             []byte
}
