// Package helper provides fixtures for the PostgreSQL circulation store tests.
//
// The Given* functions arrange state through the store's own operations and fail the test
// if arranging fails, so test bodies only contain the behaviour under test.
package helper
