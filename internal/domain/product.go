package domain

import (
	"strings"
	"time"
)

// Categories lists the fixed set of product categories artisans can pick from.
var Categories = []string{
	"Pottery & Ceramics",
	"Textiles & Weaving",
	"Jewelry",
	"Woodwork",
	"Metal Craft",
	"Paintings & Folk Art",
	"Leather Goods",
}

// KnownCategory reports whether the category is one of the fixed list.
func KnownCategory(category string) bool {
	for _, c := range Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// ProductDraft is the transient, unsaved product being assembled before a
// successful write to the store. It lives for one submission session.
type ProductDraft struct {
	Name     string
	Category string
	Price    float64
	Notes    string
	Images   []ImagePayload
}

// Empty reports whether the draft holds no user input at all.
func (d ProductDraft) Empty() bool {
	return d.Name == "" && d.Category == "" && d.Price == 0 && d.Notes == "" && len(d.Images) == 0
}

// Product is the durable record. It is created on submit and mutated only
// through explicit update or delete operations; delete flips IsActive.
type Product struct {
	ID         string
	ArtistID   string
	ArtistName string
	Name       string
	Category   string
	Price      float64
	Notes      string
	Images     []ImagePayload
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EnhancementResult carries the outcome of one per-image enhancement call.
// Results are ephemeral and discarded once the user accepts or rejects them.
type EnhancementResult struct {
	Success  bool         `json:"success"`
	Enhanced ImagePayload `json:"enhanced_image,omitempty"`
	Error    string       `json:"error,omitempty"`
}
