package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrMissingConfig        = fmt.Errorf("missing configuration")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrUnknownDriver        = fmt.Errorf("unknown datastore driver")

	// 400 Bad Request
	ErrYearRequired = fmt.Errorf("year parameter was not set")
	ErrInvalidYear  = fmt.Errorf("year parameter must be a four-digit year")

	// 404 Not Found
	ErrIngestionNotFound = fmt.Errorf("no ingestion recorded for year")

	// 5xx, внешние сервисы и хранилище
	ErrCatalogUnavailable  = fmt.Errorf("Error retrieving data from catalog API")
	ErrEmbeddingFailed     = fmt.Errorf("Error obtaining embedding")
	ErrEmptyEmbedding      = fmt.Errorf("embedding is empty")
	ErrDatastoreWrite      = fmt.Errorf("Error inserting data into datastore")
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// PublicError несёт текст, который можно отдать клиенту, поверх одной из ошибок-сентинелов.
type PublicError struct {
	Kind   error
	Detail string
}

// NewPublic создаёт PublicError; пустой detail оставляет только текст сентинела.
func NewPublic(kind error, detail string) *PublicError {
	return &PublicError{Kind: kind, Detail: detail}
}

func (p *PublicError) Error() string {
	if p.Detail == "" {
		return p.Kind.Error()
	}
	return p.Kind.Error() + ": " + p.Detail
}

func (p *PublicError) Unwrap() error {
	return p.Kind
}

// PublicMessage возвращает клиентский текст ошибки, если он есть в цепочке.
func PublicMessage(err error) (string, bool) {
	var pub *PublicError
	if errors.As(err, &pub) {
		return pub.Error(), true
	}
	return "", false
}
