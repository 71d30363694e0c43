package pagination

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Params describes a page/limit window over an ordered list.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the params into the supported range.
func (p Params) Normalize() Params {
	out := p
	if out.Limit <= 0 {
		out.Limit = DefaultLimit
	}
	if out.Limit > MaxLimit {
		out.Limit = MaxLimit
	}
	if out.Page < 1 {
		out.Page = 1
	}
	return out
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}
