package journal

// Series is the read contract shared by *Column and *TimeColumn. A Matrix
// stores Series values; the unexported methods keep the set closed.
type Series interface {
	Title() string
	SetTitle(title string)
	Len() int
	Kind() Kind
	At(i int) Value
	Values() []Value
	MaxLength() int
	String() string

	cloneSeries() Series
	selectSeries(sel Selector) (Series, error)
	prepareAppend(other Series) (func(), error)
	equalSeries(other Series) bool
}

var (
	_ Series = (*Column)(nil)
	_ Series = (*TimeColumn)(nil)
)

// normalizeIndex maps a possibly negative index onto [0, n).
func normalizeIndex(i, n int) (int, error) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, newIndexError(i, "out of range for length %d", n)
	}
	return i, nil
}
