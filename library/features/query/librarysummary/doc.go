// Package librarysummary implements the Library Summary query with the headline counts of the
// library for the staff dashboard.
package librarysummary
