package catalog

import (
	"sort"
	"strings"
)

const (
	PageSize   = 6
	RevealStep = 3
)

type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
)

// ParseSort falls back to SortDefault for anything it does not know.
func ParseSort(s string) SortOption {
	switch SortOption(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOption(s)
	}
	return SortDefault
}

type ViewMode string

const (
	ModePaginated ViewMode = "paginated"
	ModeInfinite  ViewMode = "infinite"
)

// ParseMode falls back to ModePaginated for anything it does not know.
func ParseMode(s string) ViewMode {
	if ViewMode(s) == ModeInfinite {
		return ModeInfinite
	}
	return ModePaginated
}

// Query is the full input of the catalog pipeline besides the product lists.
type Query struct {
	Search   string     `json:"search"`
	Category string     `json:"category"`
	Sort     SortOption `json:"sort"`
	Mode     ViewMode   `json:"mode"`
	Page     int        `json:"page"`
	Visible  int        `json:"visible"`
}

// DefaultQuery matches everything, first page, first window.
func DefaultQuery() Query {
	return Query{Sort: SortDefault, Mode: ModePaginated, Page: 1, Visible: PageSize}
}

// PageLink is one entry of a pager. Ellipsis entries carry no page number.
type PageLink struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// View is the windowed result of the pipeline.
type View struct {
	Query      Query      `json:"query"`
	Products   []Product  `json:"products"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	PageLinks  []PageLink `json:"page_links,omitempty"`
	Visible    int        `json:"visible"`
	HasMore    bool       `json:"has_more"`
	EndReached bool       `json:"end_reached"`
	Empty      bool       `json:"empty"`
}

// Merge puts local products first so freshly created items surface on top.
func Merge(local, remote []Product) []Product {
	out := make([]Product, 0, len(local)+len(remote))
	out = append(out, local...)
	return append(out, remote...)
}

// Filter keeps products whose title contains search (case-insensitive) and
// whose category equals category. Empty values match everything.
func Filter(products []Product, search, category string) []Product {
	needle := strings.ToLower(search)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders products in place and returns them.
func Sort(products []Product, option SortOption) []Product {
	switch option {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	}
	return products
}

// TotalPages is ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the 1-based page of products. Pages past the end are empty.
func Paginate(products []Product, page int) []Product {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(products) {
		return []Product{}
	}
	end := min(start+PageSize, len(products))
	return products[start:end]
}

// Window returns the first visible products of an infinite list.
func Window(products []Product, visible int) []Product {
	if visible < 0 {
		visible = 0
	}
	return products[:min(visible, len(products))]
}

// PageLinks lays out a pager: every page up to 7 pages, otherwise the first
// and last page around current±1 with ellipses filling the gaps.
func PageLinks(current, total int) []PageLink {
	if total <= 1 {
		return nil
	}
	var links []PageLink
	if total <= 7 {
		for i := 1; i <= total; i++ {
			links = append(links, PageLink{Page: i})
		}
		return links
	}
	links = append(links, PageLink{Page: 1})
	if current > 3 {
		links = append(links, PageLink{Ellipsis: true})
	}
	for i := max(2, current-1); i <= min(total-1, current+1); i++ {
		links = append(links, PageLink{Page: i})
	}
	if current < total-2 {
		links = append(links, PageLink{Ellipsis: true})
	}
	return append(links, PageLink{Page: total})
}

// Apply runs the catalog pipeline: merge, search, category, sort, window.
func Apply(local, remote []Product, q Query) View {
	q = normalize(q)
	filtered := Sort(Filter(Merge(local, remote), q.Search, q.Category), q.Sort)

	v := View{
		Query:      q,
		Total:      len(filtered),
		Page:       q.Page,
		TotalPages: TotalPages(len(filtered)),
	}
	if q.Mode == ModeInfinite {
		v.Visible = min(q.Visible, len(filtered))
		v.Products = Window(filtered, q.Visible)
		v.HasMore = q.Visible < len(filtered)
		v.EndReached = !v.HasMore && len(filtered) > PageSize
	} else {
		v.Products = Paginate(filtered, q.Page)
		v.Visible = len(v.Products)
		v.HasMore = q.Page < v.TotalPages
		v.PageLinks = PageLinks(q.Page, v.TotalPages)
	}
	// a page past the end has no products but is not an empty result
	v.Empty = v.Total == 0
	return v
}

func normalize(q Query) Query {
	q.Sort = ParseSort(string(q.Sort))
	q.Mode = ParseMode(string(q.Mode))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Visible < PageSize {
		q.Visible = PageSize
	}
	return q
}
