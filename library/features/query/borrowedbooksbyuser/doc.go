// Package borrowedbooksbyuser implements the Borrowed Books By User query: every borrow record of
// one user, newest first. Members may only look at their own loans.
package borrowedbooksbyuser
