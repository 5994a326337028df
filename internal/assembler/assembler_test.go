package assembler

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/gateway"
	"github.com/keshavdadhichb/bono-catalog-be/internal/registry"
)

// stubGenerator fails the Nth Generate call when N is in failCalls. Call 1 is
// the cover, the last call is the thank-you page.
type stubGenerator struct {
	calls     atomic.Int32
	failCalls map[int]bool
	output    []byte
}

func (s *stubGenerator) Generate(context.Context, gateway.Request) ([]byte, error) {
	n := int(s.calls.Add(1))
	if s.failCalls[n] {
		return nil, errors.New("simulated generation failure")
	}
	return s.output, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func catalogRequest(t *testing.T, numProducts int) domain.CatalogRequest {
	t.Helper()
	garment := pngBytes(t, 120, 160)
	products := make([]domain.Product, numProducts)
	for i := range products {
		products[i] = domain.Product{Front: garment, Back: garment}
	}
	return domain.CatalogRequest{
		Category:       domain.CategoryTeenBoy,
		CollectionName: "Test Collection",
		Theme:          "studio_minimal",
		SkinTone:       "wheatish",
		Quality:        domain.Tier2K,
		Products:       products,
	}
}

func newAssembler(t *testing.T, gen Generator, maxPages int) (*Assembler, *registry.Registry) {
	t.Helper()
	reg := registry.New(registry.Options{Logger: zerolog.Nop()})
	asm, err := New(Options{
		Generator: gen,
		Registry:  reg,
		Logger:    zerolog.Nop(),
		MaxPages:  maxPages,
	})
	require.NoError(t, err)
	return asm, reg
}

func TestAssembleSkipsFailedContentPage(t *testing.T) {
	// Three products with a budget of 7 plan five content pages. Call 4 is
	// plan entry 3; it fails, the rest succeed.
	gen := &stubGenerator{output: pngBytes(t, 90, 160), failCalls: map[int]bool{4: true}}
	asm, reg := newAssembler(t, gen, 7)
	job := reg.Create(0)

	result, err := asm.Assemble(context.Background(), job.ID, catalogRequest(t, 3))
	require.NoError(t, err)

	// Cover + 4 surviving content pages + thank-you.
	require.Len(t, result.Pages, 6)
	assert.Equal(t, "00_cover.png", result.Pages[0].Filename)
	assert.Equal(t, "99_thankyou.png", result.Pages[len(result.Pages)-1].Filename)

	// Page 3 is the dropped one.
	for _, page := range result.Pages {
		assert.NotContains(t, page.Filename, "03_")
	}

	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusSucceeded, got.Status)
	assert.Equal(t, domain.StageCompleted, got.Stage)
	assert.NotEmpty(t, result.PDF)
}

func TestAssembleReportsPageProgressTotals(t *testing.T) {
	gen := &stubGenerator{output: pngBytes(t, 90, 160)}
	asm, reg := newAssembler(t, gen, 10)
	job := reg.Create(0)

	result, err := asm.Assemble(context.Background(), job.ID, catalogRequest(t, 3))
	require.NoError(t, err)

	// Eight content pages plus cover and thank-you.
	got, err := reg.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.PagesTotal)
	assert.Equal(t, len(result.Pages), got.PagesDone)
	assert.Equal(t, got.PagesTotal, got.PagesDone)
}

func TestAssembleCoverFailureAborts(t *testing.T) {
	gen := &stubGenerator{output: pngBytes(t, 90, 160), failCalls: map[int]bool{1: true}}
	asm, reg := newAssembler(t, gen, 10)
	job := reg.Create(0)

	_, err := asm.Assemble(context.Background(), job.ID, catalogRequest(t, 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cover generation failed")

	got, _ := reg.Get(job.ID)
	assert.Equal(t, domain.JobStatusFailed, got.Status)
	assert.Contains(t, got.Error, "cover generation failed")
	// Nothing after the cover was attempted.
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestAssembleThankYouFailureAborts(t *testing.T) {
	// One product plans two content pages; the fourth call is the thank-you.
	gen := &stubGenerator{output: pngBytes(t, 90, 160), failCalls: map[int]bool{4: true}}
	asm, reg := newAssembler(t, gen, 10)
	job := reg.Create(0)

	_, err := asm.Assemble(context.Background(), job.ID, catalogRequest(t, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thank-you generation failed")

	got, _ := reg.Get(job.ID)
	assert.Equal(t, domain.JobStatusFailed, got.Status)
}

func TestAssembleRejectsBadUpload(t *testing.T) {
	gen := &stubGenerator{output: pngBytes(t, 90, 160)}
	asm, reg := newAssembler(t, gen, 10)
	job := reg.Create(0)

	req := catalogRequest(t, 1)
	req.Products[0].Back = []byte("not an image at all")

	_, err := asm.Assemble(context.Background(), job.ID, req)
	require.ErrorIs(t, err, domain.ErrValidation)

	got, _ := reg.Get(job.ID)
	assert.Equal(t, domain.JobStatusFailed, got.Status)
	// Generation never started.
	assert.Equal(t, int32(0), gen.calls.Load())
}

func TestAssembleFilenamesEncodePageAndKind(t *testing.T) {
	gen := &stubGenerator{output: pngBytes(t, 90, 160)}
	asm, reg := newAssembler(t, gen, 10)
	job := reg.Create(0)

	result, err := asm.Assemble(context.Background(), job.ID, catalogRequest(t, 5))
	require.NoError(t, err)

	want := []string{
		"00_cover.png",
		"01_collage_product_1.png",
		"02_collage_product_2.png",
		"03_collage_product_3.png",
		"04_collage_product_4.png",
		"05_fabric_product_5.png",
		"06_front_product_1.png",
		"07_back_product_1.png",
		"08_front_product_2.png",
		"99_thankyou.png",
	}
	got := make([]string, len(result.Pages))
	for i, page := range result.Pages {
		got[i] = page.Filename
	}
	assert.Equal(t, want, got)

	rec, _ := reg.Get(job.ID)
	assert.Equal(t, len(want), rec.PagesDone)
}
