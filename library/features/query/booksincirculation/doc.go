// Package booksincirculation implements the Books In Circulation query: the catalog with each
// book's author and its total and available copy counts. Any registered actor may run it.
package booksincirculation
