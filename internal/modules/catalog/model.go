package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Source tells where a product comes from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

var ErrInvalidRef = errors.New("invalid product reference")

// Rating is the average review score of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a storefront product, either fetched from the remote catalog or
// created by the shopper and kept in their local registry.
type Product struct {
	ID          int     `json:"id"`
	Source      Source  `json:"source"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Ref returns the tagged identifier of the product.
func (p Product) Ref() Ref {
	src := p.Source
	if src == "" {
		src = SourceRemote
	}
	return Ref{Source: src, ID: p.ID}
}

// IsLocal reports whether the product was created locally.
func (p Product) IsLocal() bool { return p.Source == SourceLocal }

// Ref identifies a product across both sources. Remote id 7 and local id 7
// are different products. It encodes as text, e.g. "local:1000".
type Ref struct {
	Source Source
	ID     int
}

func LocalRef(id int) Ref  { return Ref{Source: SourceLocal, ID: id} }
func RemoteRef(id int) Ref { return Ref{Source: SourceRemote, ID: id} }

func (r Ref) String() string { return fmt.Sprintf("%s:%d", r.Source, r.ID) }

func (r Ref) IsLocal() bool { return r.Source == SourceLocal }

// ParseRef accepts "local:1000", "remote:3" or a bare positive number, which
// is read as a remote id.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	src, num, found := strings.Cut(s, ":")
	if !found {
		src, num = string(SourceRemote), s
	}
	id, err := strconv.Atoi(num)
	if err != nil || id <= 0 {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}
	switch Source(src) {
	case SourceRemote, SourceLocal:
		return Ref{Source: Source(src), ID: id}, nil
	}
	return Ref{}, fmt.Errorf("%w: unknown source %q", ErrInvalidRef, src)
}

func (r Ref) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Ref) UnmarshalText(b []byte) error {
	ref, err := ParseRef(string(b))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}
