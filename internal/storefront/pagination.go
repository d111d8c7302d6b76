package storefront

const MaxVisiblePages = 5

var PageSizes = []int{5, 10, 20, 50}

// PageLink is one pagination control; Gap renders as "...".
type PageLink struct {
	Number  int
	Current bool
	Gap     bool
}

// PageWindow returns the 1-based controls for current out of total pages.
// Up to MaxVisiblePages pages are all shown; otherwise current±2 with the
// first and last pages and gaps between.
func PageWindow(current, total int) []PageLink {
	if total <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	var links []PageLink
	add := func(n int) { links = append(links, PageLink{Number: n, Current: n == current}) }

	if total <= MaxVisiblePages {
		for n := 1; n <= total; n++ {
			add(n)
		}
		return links
	}

	start := max(1, current-2)
	end := min(total, current+2)
	if start > 1 {
		add(1)
		if start > 2 {
			links = append(links, PageLink{Gap: true})
		}
	}
	for n := start; n <= end; n++ {
		add(n)
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{Gap: true})
		}
		add(total)
	}
	return links
}

// MovePage returns target when it is a real move within [1, total].
func MovePage(current, target, total int) (int, bool) {
	if target < 1 || target > total || target == current {
		return current, false
	}
	return target, true
}
