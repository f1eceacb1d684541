package export

import (
	"encoding/xml"
	"fmt"

	"github.com/google/renameio"

	"ainewsagg/internal/storage"
)

type xmlItem struct {
	XMLName     xml.Name `xml:"item"`
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Date        string   `xml:"date"`
	Description string   `xml:"description"`
}

type xmlDocument struct {
	XMLName xml.Name  `xml:"news"`
	Items   []xmlItem `xml:"item"`
}

// Snapshot writes the recent-items window to a fixed XML file.
type Snapshot struct {
	path string
}

// NewSnapshot creates an exporter targeting the given file path.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Path returns the snapshot file location.
func (s *Snapshot) Path() string {
	return s.path
}

// Write serializes the items and atomically replaces the previous snapshot.
// An empty slice still produces a valid, empty document.
func (s *Snapshot) Write(items []storage.Item) error {
	doc := xmlDocument{Items: make([]xmlItem, 0, len(items))}
	for _, item := range items {
		doc.Items = append(doc.Items, xmlItem{
			Title:       item.Title,
			Link:        item.Link,
			Date:        item.Date,
			Description: item.Description,
		})
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data := append([]byte(xml.Header), body...)

	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	return nil
}
