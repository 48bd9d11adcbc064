// Package loanhistory implements the Loan History query over loans archived when their book was
// deleted. The book itself no longer exists, so an unknown id yields an empty history.
package loanhistory
