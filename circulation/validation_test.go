package circulation_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

var fakeNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func validNewBook() circulation.NewBook {
	return circulation.NewBook{
		Title:         "Noli Me Tangere",
		Category:      "Fiction",
		Genre:         "Historical",
		YearPublished: 1887,
		AuthorName:    "Jose Rizal",
		AuthorCountry: "Philippines",
	}
}

func Test_ValidateNewBook_Success(t *testing.T) {
	assert.NoError(t, circulation.ValidateNewBook(validNewBook(), fakeNow))
}

func Test_ValidateNewBook_Error_WhenFieldIsInvalid(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(b *circulation.NewBook)
		expectedField string
	}{
		{"empty title", func(b *circulation.NewBook) { b.Title = "  " }, "title"},
		{"too long category", func(b *circulation.NewBook) { b.Category = strings.Repeat("c", 51) }, "category"},
		{"empty genre", func(b *circulation.NewBook) { b.Genre = "" }, "genre"},
		{"future year", func(b *circulation.NewBook) { b.YearPublished = 2026 }, "year_published"},
		{"zero year", func(b *circulation.NewBook) { b.YearPublished = 0 }, "year_published"},
		{"empty author", func(b *circulation.NewBook) { b.AuthorName = "" }, "author_name"},
		{"too long country", func(b *circulation.NewBook) { b.AuthorCountry = strings.Repeat("x", 51) }, "author_country"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			book := validNewBook()
			tc.mutate(&book)

			// act
			err := circulation.ValidateNewBook(book, fakeNow)

			// assert
			assert.ErrorIs(t, err, circulation.ErrValidation)

			var validationErr circulation.ValidationError
			assert.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.expectedField, validationErr.Field)
		})
	}
}

func Test_ValidateBookUpdate_Error_WhenNumberOfCopiesBelowOne(t *testing.T) {
	// arrange
	update := circulation.BookUpdate{
		BookID:         1,
		Title:          "El Filibusterismo",
		Category:       "Fiction",
		Genre:          "Historical",
		YearPublished:  1891,
		NumberOfCopies: 0,
	}

	// act
	err := circulation.ValidateBookUpdate(update, fakeNow)

	// assert
	assert.ErrorIs(t, err, circulation.ErrValidation)
	assert.Contains(t, err.Error(), "number_of_copies")
}

func Test_ValidateText_When_ValueHoldsNULOrInvalidUTF8_Then_ItIsRejected(t *testing.T) {
	testCases := []struct {
		name          string
		validate      func(value string) error
		expectedField string
	}{
		{"new book title", func(v string) error {
			b := validNewBook()
			b.Title = v
			return circulation.ValidateNewBook(b, fakeNow)
		}, "title"},
		{"new book author", func(v string) error {
			b := validNewBook()
			b.AuthorName = v
			return circulation.ValidateNewBook(b, fakeNow)
		}, "author_name"},
		{"book update genre", func(v string) error {
			return circulation.ValidateBookUpdate(circulation.BookUpdate{
				BookID:         1,
				Title:          "El Filibusterismo",
				Category:       "Fiction",
				Genre:          v,
				YearPublished:  1891,
				NumberOfCopies: 1,
			}, fakeNow)
		}, "genre"},
		{"user name", circulation.ValidateUserName, "name"},
	}

	for _, tc := range testCases {
		for _, value := range []string{"Dune\x00", "Dune\xff", "\xc3\x28"} {
			t.Run(tc.name, func(t *testing.T) {
				// act
				err := tc.validate(value)

				// assert
				assert.ErrorIs(t, err, circulation.ErrValidation)

				var validationErr circulation.ValidationError
				assert.True(t, errors.As(err, &validationErr))
				assert.Equal(t, tc.expectedField, validationErr.Field)
				assert.Equal(t, "contains invalid characters", validationErr.Reason)
			})
		}
	}
}

func Test_ValidateUserName_When_NameIsMultibyteUTF8_Then_ItIsAccepted(t *testing.T) {
	assert.NoError(t, circulation.ValidateUserName("José Rizal 日本"))
}

func Test_IsDomainError(t *testing.T) {
	assert.True(t, circulation.IsDomainError(circulation.ErrBookNotFound))
	assert.True(t, circulation.IsDomainError(circulation.ValidationError{Field: "title", Reason: "x"}))
	assert.True(t, circulation.IsDomainError(circulation.ErrAlreadyReturned))
	assert.True(t, circulation.IsDomainError(circulation.ErrUserHasActiveLoans))
	assert.False(t, circulation.IsDomainError(circulation.ErrConcurrencyConflict))
	assert.False(t, circulation.IsDomainError(errors.Join(circulation.ErrQueryingFailed, errors.New("boom"))))
}

func Test_ParseBorrowStatus(t *testing.T) {
	status, err := circulation.ParseBorrowStatus("2")
	assert.NoError(t, err)
	assert.Equal(t, circulation.BorrowAccepted, status)

	status, err = circulation.ParseBorrowStatus(" Returned ")
	assert.NoError(t, err)
	assert.Equal(t, circulation.BorrowReturned, status)

	_, err = circulation.ParseBorrowStatus("overdue")
	assert.ErrorIs(t, err, circulation.ErrValidation)
}

func Test_BorrowStatus_ActiveAndTerminal(t *testing.T) {
	assert.True(t, circulation.BorrowPending.IsActive())
	assert.True(t, circulation.BorrowAccepted.IsActive())
	assert.False(t, circulation.BorrowReturned.IsActive())
	assert.True(t, circulation.BorrowReturned.IsTerminal())
	assert.True(t, circulation.BorrowRejected.IsTerminal())
	assert.Equal(t, "accepted", circulation.BorrowAccepted.String())
}

func Test_ParseIsolationLevel(t *testing.T) {
	level, err := circulation.ParseIsolationLevel("")
	assert.NoError(t, err)
	assert.Equal(t, circulation.RowLocking, level)

	level, err = circulation.ParseIsolationLevel("serializable")
	assert.NoError(t, err)
	assert.Equal(t, circulation.Serializable, level)
	assert.Equal(t, "serializable", level.String())

	_, err = circulation.ParseIsolationLevel("read_uncommitted")
	assert.Error(t, err)
}

func Test_DateOf_TruncatesToUTCDate(t *testing.T) {
	local := time.Date(2025, 3, 14, 23, 30, 0, 0, time.FixedZone("PHT", 8*60*60))

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), circulation.DateOf(local))
}
