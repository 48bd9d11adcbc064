package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/addbook"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/reconcilecopies"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/registeruser"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/features/command/requestborrow"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell"
	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

// seedStore is what seeding needs; postgresengine.Store satisfies it.
type seedStore interface {
	addbook.Store
	reconcilecopies.Store
	registeruser.Store
	requestborrow.Store
}

type seedOptions struct {
	Users          int
	Books          int
	MaxCopies      int
	BorrowRequests int
	Seed           uint64
}

type seedReport struct {
	AdminID        circulation.UserID
	Users          int
	Books          int
	Copies         int
	BorrowRequests int
	Skipped        int
}

var (
	seedFirstNames = []string{"Ada", "Bayani", "Carmen", "Dario", "Elena", "Fidel", "Gloria", "Hiro", "Isko", "Jasmin"}
	seedLastNames  = []string{"Reyes", "Santos", "Cruz", "Lopez", "Garcia", "Tan", "Mendoza", "Torres", "Ramos", "Navarro"}
	seedAdjectives = []string{"Silent", "Hidden", "Last", "Broken", "Golden", "Northern", "Endless", "Forgotten"}
	seedNouns      = []string{"River", "Archive", "Garden", "Harbor", "Lantern", "Mountain", "Library", "Voyage"}
	seedCategories = []string{"Fiction", "Non-Fiction", "Reference", "Children"}
	seedGenres     = []string{"Mystery", "History", "Science", "Fantasy", "Biography", "Poetry"}
	seedCountries  = []string{"Philippines", "Japan", "Chile", "Kenya", "Norway", "Canada"}
)

func newSeedCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	opts := seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with a reproducible demo library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			db, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.close()

			store, err := newStore(db, cfg, observability{contextualLogger: logger})
			if err != nil {
				return err
			}

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			report, err := seedLibrary(ctx, store, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"seeded %d users (admin id %d), %d books with %d copies, %d borrow requests (%d skipped)\n",
				report.Users, report.AdminID, report.Books, report.Copies, report.BorrowRequests, report.Skipped)

			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", 20, "number of users to register besides the admin")
	cmd.Flags().IntVar(&opts.Books, "books", 50, "number of books to add")
	cmd.Flags().IntVar(&opts.MaxCopies, "max-copies", 5, "upper bound of copies per book")
	cmd.Flags().IntVar(&opts.BorrowRequests, "borrow-requests", 30, "number of borrow requests to file")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed, the same seed produces the same library")

	return cmd
}

// seedLibrary registers an admin directly in the store and then runs every other step
// through the command handlers as that admin, or as the borrowing member.
func seedLibrary(ctx context.Context, store seedStore, opts seedOptions) (seedReport, error) {
	if opts.Users < 1 || opts.Books < 1 || opts.MaxCopies < 1 || opts.BorrowRequests < 0 {
		return seedReport{}, errors.New("seed: users, books and max copies must be positive and borrow requests not negative")
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	report := seedReport{}

	adminID, err := store.RegisterUser(ctx, "Seed Administrator", circulation.RoleAdmin)
	if err != nil {
		return report, fmt.Errorf("registering the seed admin: %w", err)
	}
	report.AdminID = adminID
	admin := shell.BuildActor(adminID, circulation.RoleAdmin)

	registerUser := registeruser.NewCommandHandler(store)
	addBook := addbook.NewCommandHandler(store)
	reconcile := reconcilecopies.NewCommandHandler(store)
	requestBorrow := requestborrow.NewCommandHandler(store)

	members := make([]circulation.UserID, 0, opts.Users)
	for i := range opts.Users {
		role := circulation.RoleMember
		if i%10 == 9 {
			role = circulation.RoleLibrarian
		}

		name := pick(rng, seedFirstNames) + " " + pick(rng, seedLastNames)
		userID, _, err := registerUser.Handle(ctx, registeruser.BuildCommand(admin, name, role))
		if err != nil {
			return report, fmt.Errorf("registering user %q: %w", name, err)
		}

		report.Users++
		if role == circulation.RoleMember {
			members = append(members, userID)
		}
	}

	books := make([]circulation.BookID, 0, opts.Books)
	for range opts.Books {
		book := circulation.NewBook{
			Title:         "The " + pick(rng, seedAdjectives) + " " + pick(rng, seedNouns),
			Category:      pick(rng, seedCategories),
			Genre:         pick(rng, seedGenres),
			YearPublished: 1950 + rng.IntN(70),
			AuthorName:    pick(rng, seedFirstNames) + " " + pick(rng, seedLastNames),
			AuthorCountry: pick(rng, seedCountries),
		}

		bookID, _, err := addBook.Handle(ctx, addbook.BuildCommand(admin, book))
		if err != nil {
			return report, fmt.Errorf("adding book %q: %w", book.Title, err)
		}

		result, _, err := reconcile.Handle(ctx, reconcilecopies.BuildCommand(admin, bookID, 1+rng.IntN(opts.MaxCopies)))
		if err != nil {
			return report, fmt.Errorf("reconciling copies of book %d: %w", bookID, err)
		}

		report.Books++
		report.Copies += result.CopiesAfter
		books = append(books, bookID)
	}

	if len(members) == 0 {
		return report, nil
	}

	for range opts.BorrowRequests {
		userID := pick(rng, members)
		bookID := pick(rng, books)
		member := shell.BuildActor(userID, circulation.RoleMember)

		_, _, err := requestBorrow.Handle(ctx, requestborrow.BuildCommand(member, userID, bookID))
		switch {
		case err == nil:
			report.BorrowRequests++
		case errors.Is(err, circulation.ErrNoAvailableCopies), errors.Is(err, circulation.ErrAlreadyBorrowed):
			report.Skipped++
		default:
			return report, fmt.Errorf("requesting book %d for user %d: %w", bookID, userID, err)
		}
	}

	return report, nil
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.IntN(len(values))]
}
