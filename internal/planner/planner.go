package planner

import (
	"github.com/keshavdadhichb/bono-catalog-be/internal/prompt"
)

// LayoutKind names the page composition the assembler will request.
type LayoutKind string

const (
	LayoutCollage       LayoutKind = "collage"
	LayoutFabricCloseup LayoutKind = "fabric_closeup"
	LayoutSingleFront   LayoutKind = "single_front"
	LayoutSingleBack    LayoutKind = "single_back"
	LayoutCover         LayoutKind = "cover"
	LayoutThankYou      LayoutKind = "thankyou"
)

// Entry is one planned content page. ProductIndex selects the garment, and the
// style fields cycle through the prompt tables so consecutive pages vary.
type Entry struct {
	Layout       LayoutKind
	ProductIndex int
	PageNumber   int
	Pose         string
	Prop         string
	Style        string
}

// Plan lays out the content pages for a catalog. Cover and thank-you are added
// by the assembler, so for three or more products the plan holds at most
// maxPages-2 entries. Collage pages carry both garment views in one generation
// call, which is why they are preferred while budget lasts.
//
// Plan is pure: identical inputs produce identical output, which keeps page
// numbering, filenames and cache fingerprints stable across retries.
func Plan(numProducts, maxPages int) []Entry {
	if numProducts <= 0 {
		return nil
	}
	if numProducts <= 2 {
		return planSmall(numProducts)
	}

	contentPages := maxPages - 2
	if contentPages <= 0 {
		return nil
	}

	numCollages := 4
	if contentPages < numCollages {
		numCollages = contentPages
	}

	entries := make([]Entry, 0, contentPages)
	for i := 0; i < numCollages; i++ {
		entries = append(entries, styled(Entry{
			Layout:       LayoutCollage,
			ProductIndex: i % numProducts,
		}, len(entries)))
	}

	if len(entries) < contentPages {
		entries = append(entries, styled(Entry{
			Layout:       LayoutFabricCloseup,
			ProductIndex: numCollages % numProducts,
		}, len(entries)))
	}

	// Remaining budget alternates front and back views, moving to the next
	// product after each completed pair.
	for j := 0; len(entries) < contentPages; j++ {
		layout := LayoutSingleFront
		if j%2 == 1 {
			layout = LayoutSingleBack
		}
		entries = append(entries, styled(Entry{
			Layout:       layout,
			ProductIndex: (j / 2) % numProducts,
		}, len(entries)))
	}

	number(entries)
	return entries
}

// planSmall handles one or two products: a collage per product plus a single
// fabric close-up, skipping the budgeted algorithm entirely.
func planSmall(numProducts int) []Entry {
	entries := make([]Entry, 0, numProducts+1)
	for i := 0; i < numProducts; i++ {
		entries = append(entries, styled(Entry{
			Layout:       LayoutCollage,
			ProductIndex: i,
		}, len(entries)))
	}
	entries = append(entries, styled(Entry{
		Layout:       LayoutFabricCloseup,
		ProductIndex: 0,
	}, len(entries)))
	number(entries)
	return entries
}

// styled fills the cycling style fields from the position of the entry.
func styled(e Entry, position int) Entry {
	e.Pose = prompt.CatalogPoses[position%len(prompt.CatalogPoses)]
	e.Prop = prompt.CatalogProps[position%len(prompt.CatalogProps)]
	e.Style = prompt.CatalogLayouts[position%len(prompt.CatalogLayouts)]
	return e
}

// number assigns contiguous page numbers starting at 1.
func number(entries []Entry) {
	for i := range entries {
		entries[i].PageNumber = i + 1
	}
}
