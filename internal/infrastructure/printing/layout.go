package printing

import (
	"fmt"
	"sort"
)

// LayoutInput is the content density of one sheet page.
type LayoutInput struct {
	SecondaryImages int
	// NotesLength is the length of the free-text notes in characters
	NotesLength int
	HasLeather  bool
	HasFinish   bool
}

// LayoutSizes are the pixel sizes a sheet page is drawn with.
type LayoutSizes struct {
	PrimaryHeight int `json:"primary_height"`
	ThumbnailSize int `json:"thumbnail_size"`
	SwatchHeight  int `json:"swatch_height"`
}

// SizeTier applies when at least MinSecondary secondary images are shown.
type SizeTier struct {
	MinSecondary int `mapstructure:"min_secondary"`
	Primary      int `mapstructure:"primary"`
	Thumbnail    int `mapstructure:"thumbnail"`
}

// NotesRule shrinks the images when the notes are longer than Over characters.
type NotesRule struct {
	Over           int `mapstructure:"over"`
	PrimaryDelta   int `mapstructure:"primary_delta"`
	ThumbnailDelta int `mapstructure:"thumbnail_delta"`
}

// SizingPolicy is the decision table that keeps a page on one A4 sheet:
// more secondary images or longer notes mean smaller pictures.
type SizingPolicy struct {
	// MaxThumbnails caps the thumbnails drawn; the rest collapse into a
	// "+N more" tile.
	MaxThumbnails int `mapstructure:"max_thumbnails"`
	// Tiers are matched on the capped secondary image count.
	Tiers []SizeTier `mapstructure:"tiers"`
	// NotesRules are tried from the longest threshold down; the first
	// match applies.
	NotesRules          []NotesRule `mapstructure:"notes_rules"`
	SwatchHeight        int         `mapstructure:"swatch_height"`
	CompactSwatchHeight int         `mapstructure:"compact_swatch_height"`
}

// DefaultSizingPolicy returns the sizes tuned for an A4 page of 277mm.
func DefaultSizingPolicy() SizingPolicy {
	return SizingPolicy{
		MaxThumbnails: 4,
		Tiers: []SizeTier{
			{MinSecondary: 3, Primary: 280, Thumbnail: 160},
			{MinSecondary: 2, Primary: 300, Thumbnail: 180},
			{MinSecondary: 1, Primary: 320, Thumbnail: 200},
			{MinSecondary: 0, Primary: 340, Thumbnail: 216},
		},
		NotesRules: []NotesRule{
			{Over: 300, PrimaryDelta: -40, ThumbnailDelta: -30},
			{Over: 150, PrimaryDelta: -20, ThumbnailDelta: -15},
		},
		SwatchHeight:        100,
		CompactSwatchHeight: 80,
	}
}

// Normalize sorts tiers and rules so Decide can take the first match.
func (p SizingPolicy) Normalize() SizingPolicy {
	p.Tiers = append([]SizeTier(nil), p.Tiers...)
	sort.SliceStable(p.Tiers, func(i, j int) bool { return p.Tiers[i].MinSecondary > p.Tiers[j].MinSecondary })
	p.NotesRules = append([]NotesRule(nil), p.NotesRules...)
	sort.SliceStable(p.NotesRules, func(i, j int) bool { return p.NotesRules[i].Over > p.NotesRules[j].Over })
	return p
}

// Validate checks the table covers every image count.
func (p SizingPolicy) Validate() error {
	if p.MaxThumbnails < 1 {
		return fmt.Errorf("sizing policy: max thumbnails must be at least 1")
	}
	hasBase := false
	for _, t := range p.Tiers {
		if t.MinSecondary < 0 || t.Primary <= 0 || t.Thumbnail <= 0 {
			return fmt.Errorf("sizing policy: invalid tier %+v", t)
		}
		if t.MinSecondary == 0 {
			hasBase = true
		}
	}
	if !hasBase {
		return fmt.Errorf("sizing policy: a tier for zero secondary images is required")
	}
	if p.SwatchHeight <= 0 || p.CompactSwatchHeight <= 0 {
		return fmt.Errorf("sizing policy: swatch heights must be positive")
	}
	return nil
}

// Decide picks the sizes for one page. The policy must be normalized.
func (p SizingPolicy) Decide(in LayoutInput) LayoutSizes {
	shown := min(max(in.SecondaryImages, 0), p.MaxThumbnails)

	var out LayoutSizes
	for _, t := range p.Tiers {
		if shown >= t.MinSecondary {
			out.PrimaryHeight, out.ThumbnailSize = t.Primary, t.Thumbnail
			break
		}
	}
	for _, r := range p.NotesRules {
		if in.NotesLength > r.Over {
			out.PrimaryHeight += r.PrimaryDelta
			out.ThumbnailSize += r.ThumbnailDelta
			break
		}
	}

	out.SwatchHeight = p.SwatchHeight
	if in.HasLeather && in.HasFinish && shown > 0 {
		out.SwatchHeight = p.CompactSwatchHeight
	}
	return out
}
