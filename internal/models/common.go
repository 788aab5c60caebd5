package models

import (
	"strings"
	"time"
)

// File types used by the frontend to choose a viewer.
const (
	FileTypeImage      = "image"
	FileTypeIframe     = "iframe"
	FileTypeAttachment = "attachment"
)

// FileInfo describes an uploaded object.
type FileInfo struct {
	ID        string `json:"id,omitempty"`
	Path      string `json:"path"`
	SnapPath  string `json:"snapPath,omitempty"`
	Name      string `json:"name,omitempty"`
	Size      int64  `json:"size,omitempty"`
	Type      string `json:"type,omitempty"`
	Extension string `json:"extension,omitempty"`
}

// NestedLocation is one level of the administrative location hierarchy.
type NestedLocation struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Child *NestedLocation `json:"child,omitempty"`
}

// Leaf returns the deepest level of the hierarchy.
func (n *NestedLocation) Leaf() *NestedLocation {
	for n != nil && n.Child != nil {
		n = n.Child
	}
	return n
}

// GeoPosition is a WGS84 point.
type GeoPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location combines the hierarchy, a point and a free-text address.
type Location struct {
	NestedLocation *NestedLocation `json:"nestedLocation,omitempty"`
	GeoPosition    *GeoPosition    `json:"geoPosition,omitempty"`
	AddressLine    string          `json:"addressLine,omitempty"`
	AddressComment string          `json:"addressComment,omitempty"`
}

// LeafID returns the id of the deepest hierarchy level, or "".
func (l *Location) LeafID() string {
	if l == nil {
		return ""
	}
	if leaf := l.NestedLocation.Leaf(); leaf != nil {
		return leaf.ID
	}
	return ""
}

// Stamp returns now, nudged past prev so successive modification stamps strictly increase.
func Stamp(now, prev time.Time) time.Time {
	now = now.UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

// Paging holds the shared page and sort parameters of search endpoints.
type Paging struct {
	Page      int    `form:"page" json:"page"`
	Size      int    `form:"size" json:"size"`
	SortBy    string `form:"sortBy" json:"sortBy"`
	SortOrder string `form:"sortOrder" json:"sortOrder"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = "createdAt"
)

// Normalize applies defaults: page 0, size 10 (at most 100), createdAt desc.
func (p *Paging) Normalize() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if strings.EqualFold(p.SortOrder, "asc") {
		p.SortOrder = "asc"
	} else {
		p.SortOrder = "desc"
	}
}

// Desc reports whether results sort descending.
func (p Paging) Desc() bool {
	return p.SortOrder != "asc"
}

// splitList flattens repeated and comma-separated query values.
func splitList(in []string) []string {
	var out []string
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
