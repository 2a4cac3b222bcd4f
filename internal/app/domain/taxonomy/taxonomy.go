// Package taxonomy decorates provider categories with curated tags. It is a
// pure mapping layer: unmapped categories get an empty tag set, never an
// error.
package taxonomy

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
)

// Tag is one curated label attached to a category.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// Category is the external collaborator shape, consumed read-only from the
// platform proxy and enriched here.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BoxArtURL   string `json:"boxArtUrl"`
	ViewerCount int    `json:"viewerCount"`
	StreamCount int    `json:"streamCount"`
	Tags        []Tag  `json:"tags"`
	Status      string `json:"taxonomyStatus,omitempty"`
	Slug        string `json:"taxonomySlug,omitempty"`
}

// Taxonomy is the curated mapping file: category entries keyed by slug or
// provider id, plus the tag catalog the slugs resolve against.
type Taxonomy struct {
	Categories map[string]Entry      `json:"categories"`
	TagCatalog map[string]CatalogTag `json:"tagCatalog"`
}

type Entry struct {
	ProviderGameID string   `json:"providerGameId"`
	DisplayName    string   `json:"displayName"`
	MatchNames     []string `json:"matchNames"`
	TagSlugs       []string `json:"tagSlugs"`
	Status         string   `json:"status"`
	Slug           string   `json:"slug"`
}

type CatalogTag struct {
	Label string `json:"label"`
	Group string `json:"group"`
}

// Meta summarizes an enrichment pass.
type Meta struct {
	Matched        int  `json:"matched"`
	Total          int  `json:"total"`
	TaxonomyLoaded bool `json:"taxonomyLoaded"`
}

// Load reads a taxonomy file. A missing or malformed file yields a nil
// taxonomy, which Apply treats as "decorate with empty tags".
func Load(path string) (*Taxonomy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Taxonomy
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

var numericRe = regexp.MustCompile(`^\d+$`)

type indices struct {
	byID   map[string]*Entry
	byName map[string]*Entry
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (t *Taxonomy) buildIndices() indices {
	idx := indices{
		byID:   make(map[string]*Entry),
		byName: make(map[string]*Entry),
	}

	for key, entry := range t.Categories {
		e := entry
		gameID := e.ProviderGameID
		if gameID == "" && numericRe.MatchString(key) {
			gameID = key
		}
		if gameID != "" {
			idx.byID[gameID] = &e
		}

		names := append([]string{e.DisplayName}, e.MatchNames...)
		for _, name := range names {
			n := normalizeText(name)
			if n == "" {
				continue
			}
			if _, taken := idx.byName[n]; !taken {
				idx.byName[n] = &e
			}
		}
	}

	return idx
}

func (t *Taxonomy) tagsFor(entry *Entry) []Tag {
	out := make([]Tag, 0, len(entry.TagSlugs))
	for _, slug := range entry.TagSlugs {
		key := strings.TrimSpace(slug)
		if key == "" {
			continue
		}
		tag := Tag{ID: key, Name: key}
		if item, ok := t.TagCatalog[key]; ok {
			if item.Label != "" {
				tag.Name = item.Label
			}
			tag.Group = item.Group
		}
		out = append(out, tag)
	}
	return out
}

// Apply decorates categories with curated tags, matching by provider id
// first and normalized name second. A nil taxonomy still yields every
// category back, tagged empty.
func Apply(categories []Category, t *Taxonomy) ([]Category, Meta) {
	out := make([]Category, len(categories))
	meta := Meta{Total: len(categories)}

	if t == nil {
		for i, c := range categories {
			c.Tags = []Tag{}
			out[i] = c
		}
		return out, meta
	}

	meta.TaxonomyLoaded = true
	idx := t.buildIndices()

	for i, c := range categories {
		entry := idx.byID[c.ID]
		if entry == nil {
			entry = idx.byName[normalizeText(c.Name)]
		}

		if entry != nil {
			meta.Matched++
			c.Tags = t.tagsFor(entry)
			c.Status = entry.Status
			if c.Status == "" {
				c.Status = "mapped"
			}
			c.Slug = entry.Slug
		} else {
			c.Tags = []Tag{}
			c.Status = "unmapped"
		}
		out[i] = c
	}

	return out, meta
}
