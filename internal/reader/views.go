package reader

// Registry is an ordered, cyclic set of views. Order is navigation order.
type Registry struct {
	views []View
	index int
}

func NewRegistry(views []View) *Registry {
	return &Registry{views: append([]View(nil), views...)}
}

func (r *Registry) Len() int {
	return len(r.views)
}

func (r *Registry) Index() int {
	return r.index
}

func (r *Registry) Views() []View {
	if len(r.views) == 0 {
		return []View{{Title: DefaultViewTitle}}
	}
	return append([]View(nil), r.views...)
}

func (r *Registry) Current() View {
	if len(r.views) == 0 {
		return View{Title: DefaultViewTitle}
	}
	return r.views[r.index]
}

func (r *Registry) Next() View {
	if len(r.views) == 0 {
		return r.Current()
	}
	r.index = (r.index + 1) % len(r.views)
	return r.views[r.index]
}

func (r *Registry) Previous() View {
	if len(r.views) == 0 {
		return r.Current()
	}
	r.index = (r.index - 1 + len(r.views)) % len(r.views)
	return r.views[r.index]
}

func (r *Registry) SelectIndex(i int) bool {
	if i < 0 || i >= len(r.views) {
		return false
	}
	r.index = i
	return true
}

// IndexOf returns the position of the view titled title, or -1.
func (r *Registry) IndexOf(title string) int {
	for i, v := range r.views {
		if v.Title == title {
			return i
		}
	}
	return -1
}
