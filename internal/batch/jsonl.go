package batch

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/imgproc"
	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
	"github.com/keshavdadhichb/bono-catalog-be/internal/planner"
	"github.com/keshavdadhichb/bono-catalog-be/internal/prompt"
	"github.com/keshavdadhichb/bono-catalog-be/internal/providers/genai"
)

// requestLine is one JSONL record submitted to the batch API. The key ties the
// eventual result back to its page.
type requestLine struct {
	Key     string                       `json:"key"`
	Request genai.GenerateContentRequest `json:"request"`
}

// resultLine is one JSONL record in the batch result file.
type resultLine struct {
	Key      string                         `json:"key"`
	Response *genai.GenerateContentResponse `json:"response,omitempty"`
	Error    *struct {
		Message string `json:"message,omitempty"`
	} `json:"error,omitempty"`
}

// buildRequestLines renders the full page plan into JSONL. The key order
// matches catalog order: cover, content pages, thank-you.
func buildRequestLines(req domain.CatalogRequest, products []domain.Product, logo []byte) ([]byte, []string, error) {
	size := req.Quality.Base()
	plan := planner.Plan(len(products), planMaxPages)

	var buf bytes.Buffer
	var keys []string
	write := func(key, text string, refs [][]byte) error {
		line := requestLine{Key: key, Request: contentRequest(text, refs, size)}
		data, err := json.Marshal(line)
		if err != nil {
			return fmt.Errorf("marshal request line %s: %w", key, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
		keys = append(keys, key)
		return nil
	}

	coverText := prompt.Cover(prompt.CoverParams{
		CollectionName:   req.CollectionName,
		CollectionNumber: req.CollectionNumber,
		Theme:            req.Theme,
		Tagline:          req.Texts.Tagline,
		Season:           req.Texts.Season,
		Year:             req.Texts.Year,
	})
	var coverRefs [][]byte
	if len(logo) > 0 {
		coverRefs = append(coverRefs, logo)
	}
	if err := write("00_cover", coverText, coverRefs); err != nil {
		return nil, nil, err
	}

	for _, entry := range plan {
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

		var text, kind string
		var refs [][]byte
		switch entry.Layout {
		case planner.LayoutCollage:
			text, kind = prompt.CollagePage(params), "collage"
			refs = [][]byte{product.Front, product.Back}
		case planner.LayoutFabricCloseup:
			text, kind = prompt.FabricCloseup(params), "fabric"
			refs = [][]byte{product.Front}
		case planner.LayoutSingleFront:
			text, kind = prompt.SinglePage(params, "front"), "front"
			refs = [][]byte{product.Front}
		case planner.LayoutSingleBack:
			text, kind = prompt.SinglePage(params, "back"), "back"
			refs = [][]byte{product.Back}
		default:
			continue
		}
		key := fmt.Sprintf("%02d_%s_product_%d", entry.PageNumber, kind, entry.ProductIndex+1)
		if err := write(key, text, refs); err != nil {
			return nil, nil, err
		}
	}

	thanksRefs := make([][]byte, 0, thankYouRefLimit)
	for _, product := range products {
		if len(thanksRefs) == thankYouRefLimit {
			break
		}
		thanksRefs = append(thanksRefs, product.Front)
	}
	thanksText := prompt.ThankYou(prompt.ThankYouParams{
		CollectionName: req.CollectionName,
		Theme:          req.Theme,
		Contact:        prompt.DefaultContact,
		ProductCount:   len(thanksRefs),
	})
	if err := write("99_thankyou", thanksText, thanksRefs); err != nil {
		return nil, nil, err
	}

	return buf.Bytes(), keys, nil
}

const (
	planMaxPages     = 10
	thankYouRefLimit = 6
)

func contentRequest(text string, refs [][]byte, size string) genai.GenerateContentRequest {
	parts := make([]genai.Part, 0, len(refs)+1)
	parts = append(parts, genai.Part{Text: text})
	for _, ref := range refs {
		parts = append(parts, genai.Part{InlineData: &genai.InlineData{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(ref),
		}})
	}
	return genai.GenerateContentRequest{
		Contents: []genai.Content{{Role: "user", Parts: parts}},
		GenerationConfig: &genai.GenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &genai.ImageConfig{AspectRatio: "9:16", ImageSize: size},
		},
	}
}

// parseResultLines extracts validated page images keyed by request key. Lines
// that fail to parse, report errors or carry unusable bytes are logged and
// dropped; the batch is useful even when some pages are lost.
func parseResultLines(raw []byte, logger infra.Logger) map[string][]byte {
	images := make(map[string][]byte)
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec resultLine
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn().Err(err).Msg("unparseable batch result line")
			continue
		}
		if rec.Error != nil {
			logger.Warn().Str("key", rec.Key).Str("reason", rec.Error.Message).Msg("batch page failed remotely")
			continue
		}
		data, ok := extractInline(rec.Response)
		if !ok {
			logger.Warn().Str("key", rec.Key).Msg("batch result line has no image")
			continue
		}
		png, err := imgproc.ReencodePNG(data)
		if err != nil {
			logger.Warn().Err(err).Str("key", rec.Key).Msg("batch result bytes are not an image")
			continue
		}
		images[rec.Key] = png
	}
	if err := scanner.Err(); err != nil {
		logger.Warn().Err(err).Msg("batch result scan aborted")
	}
	return images
}

func extractInline(resp *genai.GenerateContentResponse) ([]byte, bool) {
	if resp == nil {
		return nil, false
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				continue
			}
			return data, true
		}
	}
	return nil, false
}
