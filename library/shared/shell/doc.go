// Package shell holds the infrastructure shared by all feature slices of the library application:
// the acting user and its permissions, retrying on concurrency conflicts, the handler result,
// and the observability helpers used by the observable wrappers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
