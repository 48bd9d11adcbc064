package booksincirculation

import (
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

// BooksInCirculation is the catalog ordered by title.
type BooksInCirculation struct {
	Books []circulation.BookInCirculation
	Count int
}
