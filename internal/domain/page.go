package domain

// Page is one slice of a paginated list / Une tranche d'une liste paginée
type Page[T any] struct {
	Items    []T
	Number   int // 1-based, 0 means the end-of-list sentinel / 1-basé, 0 = sentinelle de fin
	NumPages int
	Total    int
	PageSize int
}

// EmptyPage is returned for the page 0 sentinel / Retournée pour la sentinelle page 0
func EmptyPage[T any](size int) Page[T] {
	return Page[T]{Items: []T{}, PageSize: size}
}

// HasNext reports whether another page follows / Indique si une page suit
func (p Page[T]) HasNext() bool {
	return p.Number > 0 && p.Number < p.NumPages
}

// HasPrevious reports whether a page precedes / Indique si une page précède
func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// NextPageNumber returns the next page or 0 / Retourne la page suivante ou 0
func (p Page[T]) NextPageNumber() int {
	if !p.HasNext() {
		return 0
	}
	return p.Number + 1
}

// IsEmpty reports an empty page / Indique une page vide
func (p Page[T]) IsEmpty() bool {
	return len(p.Items) == 0
}

// ResolvePage clamps a requested page against the row count.
// Pages below 1 or past the end resolve to the last page; zero rows still have one page.
// Résout la page demandée selon le nombre de lignes.
func ResolvePage(requested, size, total int) (number, offset, numPages int) {
	if size < 1 {
		size = 1
	}
	numPages = (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	number = requested
	if number < 1 || number > numPages {
		number = numPages
	}
	return number, (number - 1) * size, numPages
}
