package assembler

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshavdadhichb/bono-catalog-be/internal/cache"
	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/gateway"
	"github.com/keshavdadhichb/bono-catalog-be/internal/imgproc"
	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
	"github.com/keshavdadhichb/bono-catalog-be/internal/planner"
	"github.com/keshavdadhichb/bono-catalog-be/internal/prompt"
	"github.com/keshavdadhichb/bono-catalog-be/internal/registry"
	"github.com/keshavdadhichb/bono-catalog-be/pkg/pdf"
)

// DefaultMaxPages bounds a catalog regardless of product count. Cover and
// thank-you live inside this budget.
const DefaultMaxPages = 10

// thankYouRefLimit caps how many garment references ride along on the closing
// page prompt.
const thankYouRefLimit = 6

// Generator produces one validated PNG per request. Satisfied by *gateway.Gateway.
type Generator interface {
	Generate(ctx context.Context, req gateway.Request) ([]byte, error)
}

// Page is one finished catalog image in output order.
type Page struct {
	Filename string
	Data     []byte
}

// Result is a completed catalog: ordered pages plus the derived PDF. PDF may
// be nil when rendering failed; the images are still usable on their own.
type Result struct {
	Pages []Page
	PDF   []byte
}

// Options configures an Assembler.
type Options struct {
	Generator Generator
	Cache     *cache.Store
	Registry  *registry.Registry
	Logger    infra.Logger
	MaxPages  int
}

// Assembler walks a page plan and turns one catalog request into a full set of
// page images. A failed content page is skipped and logged; a failed cover or
// thank-you page aborts the catalog, since those frame everything else.
type Assembler struct {
	gen      Generator
	cache    *cache.Store
	registry *registry.Registry
	logger   infra.Logger
	maxPages int
}

// New constructs an Assembler.
func New(opts Options) (*Assembler, error) {
	if opts.Generator == nil {
		return nil, errors.New("assembler: generator is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("assembler: registry is required")
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Assembler{
		gen:      opts.Generator,
		cache:    opts.Cache,
		registry: opts.Registry,
		logger:   opts.Logger,
		maxPages: maxPages,
	}, nil
}

// Assemble runs the whole pipeline for one catalog job, updating the registry
// as stages advance. On an aborting error the job is marked failed with the
// stage that sank it.
func (a *Assembler) Assemble(ctx context.Context, jobID string, req domain.CatalogRequest) (*Result, error) {
	a.registry.SetStage(jobID, domain.StagePreprocessing)
	prepared, logo, err := a.preprocess(req)
	if err != nil {
		a.registry.Fail(jobID, err.Error())
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	plan := planner.Plan(len(prepared), a.maxPages)
	// Cover and thank-you page on top of the planned content pages.
	a.registry.SetPagesTotal(jobID, len(plan)+2)
	size := req.Quality.Base()

	a.registry.SetStage(jobID, domain.StageGeneratingCover)
	cover, err := a.generateCover(ctx, req, logo, size)
	if err != nil {
		a.registry.Fail(jobID, fmt.Sprintf("cover generation failed: %v", err))
		return nil, fmt.Errorf("cover generation failed: %w", err)
	}
	pages := []Page{{Filename: "00_cover.png", Data: cover}}
	a.registry.PageDone(jobID, pages[0].Filename)

	a.registry.SetStage(jobID, domain.StageGeneratingPages)
	for _, entry := range plan {
		page, err := a.generateEntry(ctx, req, prepared, entry, size)
		if err != nil {
			a.logger.Warn().Err(err).
				Int("page", entry.PageNumber).
				Str("layout", string(entry.Layout)).
				Msg("content page failed, skipping")
			continue
		}
		pages = append(pages, page)
		a.registry.PageDone(jobID, page.Filename)
	}

	a.registry.SetStage(jobID, domain.StageGeneratingThankYou)
	thanks, err := a.generateThankYou(ctx, req, prepared, size)
	if err != nil {
		a.registry.Fail(jobID, fmt.Sprintf("thank-you generation failed: %v", err))
		return nil, fmt.Errorf("thank-you generation failed: %w", err)
	}
	pages = append(pages, Page{Filename: "99_thankyou.png", Data: thanks})
	a.registry.PageDone(jobID, "99_thankyou.png")

	if target := req.Quality.UpscaleTarget(); target != "" {
		a.registry.SetStage(jobID, domain.StageUpscaling)
		a.upscalePages(pages, target)
	}

	a.registry.SetStage(jobID, domain.StagePackaging)
	result := &Result{Pages: pages}
	imageData := make([][]byte, len(pages))
	for i, page := range pages {
		imageData[i] = page.Data
	}
	doc, err := pdf.Build(imageData)
	if err != nil {
		a.logger.Warn().Err(err).Msg("pdf rendering failed, shipping images only")
	} else {
		result.PDF = doc
	}

	a.registry.Complete(jobID)
	return result, nil
}

// preprocess validates and normalizes every uploaded image. Garment problems
// abort the job; logo problems never do.
func (a *Assembler) preprocess(req domain.CatalogRequest) ([]domain.Product, []byte, error) {
	prepared := make([]domain.Product, len(req.Products))
	for i, product := range req.Products {
		front, err := imgproc.PrepareGarment(product.Front)
		if err != nil {
			return nil, nil, fmt.Errorf("product %d front: %w", i+1, err)
		}
		back, err := imgproc.PrepareGarment(product.Back)
		if err != nil {
			return nil, nil, fmt.Errorf("product %d back: %w", i+1, err)
		}
		prepared[i] = domain.Product{Front: front, Back: back}
	}
	var logo []byte
	if len(req.Logo) > 0 {
		logo = imgproc.PrepareLogo(req.Logo)
	}
	return prepared, logo, nil
}

func (a *Assembler) generateCover(ctx context.Context, req domain.CatalogRequest, logo []byte, size string) ([]byte, error) {
	text := prompt.Cover(prompt.CoverParams{
		CollectionName:   req.CollectionName,
		CollectionNumber: req.CollectionNumber,
		Theme:            req.Theme,
		Tagline:          req.Texts.Tagline,
		Season:           req.Texts.Season,
		Year:             req.Texts.Year,
	})
	var refs [][]byte
	if len(logo) > 0 {
		refs = append(refs, logo)
	}
	return a.generate(ctx, refs, text, size)
}

func (a *Assembler) generateEntry(ctx context.Context, req domain.CatalogRequest, products []domain.Product, entry planner.Entry, size string) (Page, error) {
	product := products[entry.ProductIndex]
	params := prompt.PageParams{
		Category:       string(req.Category),
		SkinTone:       req.SkinTone,
		BodyType:       req.BodyType,
		Theme:          req.Theme,
		CollectionName: req.CollectionName,
		PageNumber:     entry.PageNumber,
		Pose:           entry.Pose,
		Prop:           entry.Prop,
		Layout:         entry.Style,
	}

	var text string
	var refs [][]byte
	var kind string
	switch entry.Layout {
	case planner.LayoutCollage:
		text = prompt.CollagePage(params)
		refs = [][]byte{product.Front, product.Back}
		kind = "collage"
	case planner.LayoutFabricCloseup:
		text = prompt.FabricCloseup(params)
		refs = [][]byte{product.Front}
		kind = "fabric"
	case planner.LayoutSingleFront:
		text = prompt.SinglePage(params, "front")
		refs = [][]byte{product.Front}
		kind = "front"
	case planner.LayoutSingleBack:
		text = prompt.SinglePage(params, "back")
		refs = [][]byte{product.Back}
		kind = "back"
	default:
		return Page{}, fmt.Errorf("unknown layout kind %q", entry.Layout)
	}

	data, err := a.generate(ctx, refs, text, size)
	if err != nil {
		return Page{}, err
	}
	filename := fmt.Sprintf("%02d_%s_product_%d.png", entry.PageNumber, kind, entry.ProductIndex+1)
	return Page{Filename: filename, Data: data}, nil
}

func (a *Assembler) generateThankYou(ctx context.Context, req domain.CatalogRequest, products []domain.Product, size string) ([]byte, error) {
	refs := make([][]byte, 0, thankYouRefLimit)
	for _, product := range products {
		if len(refs) == thankYouRefLimit {
			break
		}
		refs = append(refs, product.Front)
	}
	text := prompt.ThankYou(prompt.ThankYouParams{
		CollectionName: req.CollectionName,
		Theme:          req.Theme,
		Contact:        prompt.DefaultContact,
		ProductCount:   len(refs),
	})
	return a.generate(ctx, refs, text, size)
}

// generate routes one page through the cache when one is configured.
func (a *Assembler) generate(ctx context.Context, refs [][]byte, text, size string) ([]byte, error) {
	genReq := gateway.Request{Prompt: text, Images: refs, AspectRatio: "9:16", ImageSize: size}
	if a.cache == nil {
		return a.gen.Generate(ctx, genReq)
	}
	key := cache.Fingerprint(refs, text, "9:16", size)
	data, hit, err := a.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
		return a.gen.Generate(ctx, genReq)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		a.logger.Debug().Str("fingerprint", key).Msg("cache hit")
	}
	return data, nil
}

// upscalePages enlarges every page in place, best effort. A page that fails to
// upscale keeps its original bytes.
func (a *Assembler) upscalePages(pages []Page, target string) {
	for i := range pages {
		up, err := imgproc.Upscale(pages[i].Data, target)
		if err != nil {
			a.logger.Warn().Err(err).Str("page", pages[i].Filename).Msg("upscale failed, keeping original")
			continue
		}
		pages[i].Data = up
	}
}
