// Package archive exports the loan history of deleted books to S3-compatible object storage
// (AWS S3 or MinIO). Every deletion becomes one JSON document under
// <prefix>/book-<id>/<uuid>.json.
package archive
