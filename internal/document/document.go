// Package document defines the content contract produced by the external
// ingestion collaborator. The pipeline treats these types as read-only
// input; text extraction, OCR, and legibility scoring happen upstream.
package document

import "strings"

// ImageRef describes an image embedded in a page.
type ImageRef struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ColorMode string `json:"color_mode"`
}

// Page holds the extracted content of a single document page.
// PageNumber is 1-based.
type Page struct {
	PageNumber int        `json:"page_number"`
	Text       string     `json:"text"`
	HasText    bool       `json:"has_text"`
	CharCount  int        `json:"char_count"`
	Images     []ImageRef `json:"images,omitempty"`
}

// Content is a normalized multi-page document as delivered by ingestion.
type Content struct {
	PageCount       int     `json:"page_count"`
	ImageCount      int     `json:"image_count"`
	HasText         bool    `json:"has_text"`
	IsLegible       bool    `json:"is_legible"`
	LegibilityScore float64 `json:"legibility_score"`
	Pages           []Page  `json:"pages"`
}

// AllText joins the text of every page in page order, separated by
// blank lines. Pages without text contribute nothing.
func (c *Content) AllText() string {
	var parts []string
	for _, p := range c.Pages {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Metadata summarizes document-level properties echoed on outcomes.
type Metadata struct {
	PageCount       int     `json:"page_count"`
	ImageCount      int     `json:"image_count"`
	HasText         bool    `json:"has_text"`
	IsLegible       bool    `json:"is_legible"`
	LegibilityScore float64 `json:"legibility_score"`
}

// Meta extracts the document-level metadata from c.
func (c *Content) Meta() Metadata {
	return Metadata{
		PageCount:       c.PageCount,
		ImageCount:      c.ImageCount,
		HasText:         c.HasText,
		IsLegible:       c.IsLegible,
		LegibilityScore: c.LegibilityScore,
	}
}
