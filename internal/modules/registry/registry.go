package registry

import "github.com/georgemunganga/shophub/internal/modules/catalog"

// Registry is the set of products a shopper created. Identifiers are handed
// out from FirstID upwards and never reused. It is not safe for concurrent use.
type Registry struct {
	products []catalog.Product
	nextID   int
}

func New() *Registry { return &Registry{nextID: FirstID} }

// Create adds a product in front of the others and returns it.
func (r *Registry) Create(in ProductInput) catalog.Product {
	p := catalog.Product{
		ID:          r.nextID,
		Source:      catalog.SourceLocal,
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
	}
	r.nextID++
	r.products = append([]catalog.Product{p}, r.products...)
	return p
}

// Update merges patch into product id. Unknown ids are ignored.
func (r *Registry) Update(id int, patch ProductPatch) (catalog.Product, bool) {
	i := r.index(id)
	if i < 0 {
		return catalog.Product{}, false
	}
	p := &r.products[i]
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	return *p, true
}

// Delete removes product id if present.
func (r *Registry) Delete(id int) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return true
}

func (r *Registry) IsLocal(id int) bool { return r.index(id) >= 0 }

func (r *Registry) Get(id int) (catalog.Product, bool) {
	if i := r.index(id); i >= 0 {
		return r.products[i], true
	}
	return catalog.Product{}, false
}

// Products returns a copy, newest first.
func (r *Registry) Products() []catalog.Product {
	return append([]catalog.Product{}, r.products...)
}

func (r *Registry) NextID() int { return r.nextID }

func (r *Registry) index(id int) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) Snapshot() Snapshot {
	return Snapshot{Products: r.Products(), NextID: r.nextID}
}

// Restore replaces the registry with s. NextID is raised to at least FirstID
// and past every stored id so a damaged snapshot cannot cause reuse.
func (r *Registry) Restore(s Snapshot) {
	r.products = nil
	r.nextID = max(s.NextID, FirstID)
	for _, p := range s.Products {
		if r.index(p.ID) >= 0 {
			continue
		}
		p.Source = catalog.SourceLocal
		r.products = append(r.products, p)
		r.nextID = max(r.nextID, p.ID+1)
	}
}
