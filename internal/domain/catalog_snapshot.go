package domain

import "fmt"

// CatalogSnapshot содержит сырой ответ каталога, сохраняемый в объектное хранилище
type CatalogSnapshot struct {
	Key         string
	Data        []byte
	ContentType string
}

func NewCatalogSnapshot(year, runID string, data []byte) *CatalogSnapshot {
	return &CatalogSnapshot{
		Key:         fmt.Sprintf("catalog/%s/%s.json", year, runID),
		Data:        data,
		ContentType: "application/json",
	}
}
