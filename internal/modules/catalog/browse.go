package catalog

// Browser holds one shopper's browse state. Changing what is shown (search,
// category, sort, mode) starts over at page 1 with the first window.
type Browser struct {
	q Query
}

func NewBrowser() *Browser { return &Browser{q: DefaultQuery()} }

func (b *Browser) Query() Query { return b.q }

func (b *Browser) resetPaging() {
	b.q.Page = 1
	b.q.Visible = PageSize
}

func (b *Browser) SetSearch(search string) {
	b.q.Search = search
	b.resetPaging()
}

func (b *Browser) SetCategory(category string) {
	b.q.Category = category
	b.resetPaging()
}

func (b *Browser) SetSort(option SortOption) {
	b.q.Sort = ParseSort(string(option))
	b.resetPaging()
}

// SetMode switches between pages and incremental reveal. Only the windowing
// changes, the filtered set stays the same.
func (b *Browser) SetMode(mode ViewMode) {
	b.q.Mode = ParseMode(string(mode))
	b.resetPaging()
}

// ClearFilters drops search text and category.
func (b *Browser) ClearFilters() {
	b.q.Search = ""
	b.q.Category = ""
	b.resetPaging()
}

func (b *Browser) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	b.q.Page = page
}

// Reveal grows the infinite window by RevealStep, capped at filtered. It
// reports whether anything changed; once the filtered set is exhausted it
// stays put until the filters change.
func (b *Browser) Reveal(filtered int) bool {
	if b.q.Mode != ModeInfinite || b.q.Visible >= filtered {
		return false
	}
	b.q.Visible = min(b.q.Visible+RevealStep, filtered)
	return true
}

// BrowseUpdate is a partial change of browse state. Nil fields are left alone.
type BrowseUpdate struct {
	Search   *string     `json:"search,omitempty"`
	Category *string     `json:"category,omitempty"`
	Sort     *SortOption `json:"sort,omitempty"`
	Mode     *ViewMode   `json:"mode,omitempty"`
	Page     *int        `json:"page,omitempty"`
}

// Apply applies u in the order a shopper would: filters first, then the page.
// A filter change that leaves the value untouched does not reset paging.
func (b *Browser) Apply(u BrowseUpdate) {
	if u.Search != nil && *u.Search != b.q.Search {
		b.SetSearch(*u.Search)
	}
	if u.Category != nil && *u.Category != b.q.Category {
		b.SetCategory(*u.Category)
	}
	if u.Sort != nil && ParseSort(string(*u.Sort)) != b.q.Sort {
		b.SetSort(*u.Sort)
	}
	if u.Mode != nil && ParseMode(string(*u.Mode)) != b.q.Mode {
		b.SetMode(*u.Mode)
	}
	if u.Page != nil {
		b.SetPage(*u.Page)
	}
}
