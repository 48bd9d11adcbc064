package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/circulation"
)

const (
	contentTypeJSON = "application/json"
	payloadVersion  = 1
)

var (
	// ErrMissingBucket is returned when the exporter is built without a bucket.
	ErrMissingBucket = errors.New("loan archive bucket is required")

	// ErrExportFailed wraps every failure to encode or upload an archive document.
	ErrExportFailed = errors.New("exporting the loan archive failed")
)

// ObjectPutter is the part of the S3 client the exporter needs. *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// LoanExporter writes archived loans as JSON documents to a bucket.
type LoanExporter struct {
	client ObjectPutter
	bucket string
	prefix string
	newID  func() uuid.UUID
	now    func() time.Time
}

// Option configures a LoanExporter.
type Option func(*LoanExporter)

// WithIDGenerator replaces the random object ids, mainly for tests.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(e *LoanExporter) {
		e.newID = newID
	}
}

// WithClock replaces the export timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *LoanExporter) {
		e.now = now
	}
}

// NewLoanExporter creates a LoanExporter for bucket. A leading or trailing slash in prefix is ignored.
func NewLoanExporter(client ObjectPutter, bucket, prefix string, opts ...Option) (*LoanExporter, error) {
	if bucket == "" {
		return nil, ErrMissingBucket
	}

	exporter := &LoanExporter{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		newID:  uuid.New,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(exporter)
	}

	return exporter, nil
}

type loanArchiveDocument struct {
	Version    int                  `json:"version"`
	BookID     circulation.BookID   `json:"book_id"`
	ExportedAt time.Time            `json:"exported_at"`
	Loans      []archivedLoanRecord `json:"loans"`
}

type archivedLoanRecord struct {
	BorrowRecordID circulation.BorrowRecordID `json:"borrow_record_id"`
	UserID         circulation.UserID         `json:"user_id"`
	CopyID         circulation.CopyID         `json:"copy_id"`
	Title          string                     `json:"title"`
	AuthorName     string                     `json:"author_name"`
	Status         string                     `json:"status"`
	DateBorrowed   string                     `json:"date_borrowed"`
	ReturnDate     *string                    `json:"return_date,omitempty"`
	ArchivedAt     time.Time                  `json:"archived_at"`
}

// ExportLoans uploads one document with all loans of bookID and returns its s3:// location.
func (e *LoanExporter) ExportLoans(
	ctx context.Context,
	bookID circulation.BookID,
	loans []circulation.ArchivedLoan,
) (string, error) {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(toDocument(bookID, loans, e.now().UTC()))
	if err != nil {
		return "", errors.Join(ErrExportFailed, err)
	}

	key := e.objectKey(bookID)

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeJSON),
		Metadata: map[string]string{
			"book-id":    strconv.FormatInt(bookID, 10),
			"loan-count": strconv.Itoa(len(loans)),
		},
	})
	if err != nil {
		return "", errors.Join(ErrExportFailed, err)
	}

	return fmt.Sprintf("s3://%s/%s", e.bucket, key), nil
}

func (e *LoanExporter) objectKey(bookID circulation.BookID) string {
	name := fmt.Sprintf("book-%d/%s.json", bookID, e.newID())
	if e.prefix == "" {
		return name
	}

	return e.prefix + "/" + name
}

func toDocument(bookID circulation.BookID, loans []circulation.ArchivedLoan, exportedAt time.Time) loanArchiveDocument {
	doc := loanArchiveDocument{
		Version:    payloadVersion,
		BookID:     bookID,
		ExportedAt: exportedAt,
		Loans:      make([]archivedLoanRecord, 0, len(loans)),
	}

	for _, loan := range loans {
		record := archivedLoanRecord{
			BorrowRecordID: loan.BorrowRecordID,
			UserID:         loan.UserID,
			CopyID:         loan.CopyID,
			Title:          loan.Title,
			AuthorName:     loan.AuthorName,
			Status:         loan.Status.String(),
			DateBorrowed:   loan.DateBorrowed.Format(time.DateOnly),
			ArchivedAt:     loan.ArchivedAt.UTC(),
		}

		if loan.ReturnDate != nil {
			returned := loan.ReturnDate.Format(time.DateOnly)
			record.ReturnDate = &returned
		}

		doc.Loans = append(doc.Loans, record)
	}

	return doc
}
