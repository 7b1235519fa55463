package listview

const (
	// DefaultPerPage is used when a filter carries no page size.
	DefaultPerPage = 10

	maxPageButtons = 5
)

// Pager describes the current page of a list.
type Pager struct {
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
	Buttons    []int
	// From and To are the 1-indexed positions of the first and last item shown; 0 when empty.
	From int
	To   int
}

// HasPrev reports whether a previous page exists.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number.
func (p Pager) PrevPage() int { return p.Page - 1 }

// NextPage returns the next page number.
func (p Pager) NextPage() int { return p.Page + 1 }

// Paginate returns the items of page and its pager. Pages outside
// [1, totalPages] are clamped; an empty list has one empty page.
func Paginate[T any](items []T, page, perPage int) ([]T, Pager) {
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	total := len(items)

	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	page = clamp(page, 1, totalPages)

	start := (page - 1) * perPage
	end := min(start+perPage, total)

	pager := Pager{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		Buttons:    PageButtons(page, totalPages),
	}

	if start >= total {
		return []T{}, pager
	}

	pager.From = start + 1
	pager.To = end

	return items[start:end], pager
}

// PageButtons returns the page numbers to render as buttons: every page up to
// five pages, else a window of five centered on current and clamped to [1, total].
func PageButtons(current, total int) []int {
	if total < 1 {
		return []int{}
	}

	current = clamp(current, 1, total)

	start, end := 1, total

	if total > maxPageButtons {
		start = max(1, current-maxPageButtons/2)
		end = start + maxPageButtons - 1

		if end > total {
			end = total
			start = end - maxPageButtons + 1
		}
	}

	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}

	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
