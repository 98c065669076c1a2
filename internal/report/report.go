// Package report assembles and persists the published results document.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"StockScout/internal/model"
)

// Build sorts results by confidence score, highest first, with ties broken
// by ticker, and stamps the document with now.
func Build(results []model.AnalysisResult, now time.Time) *model.Document {
	stocks := append([]model.AnalysisResult(nil), results...)
	sort.SliceStable(stocks, func(i, j int) bool {
		if stocks[i].ConfidenceScore != stocks[j].ConfidenceScore {
			return stocks[i].ConfidenceScore > stocks[j].ConfidenceScore
		}
		return stocks[i].Ticker < stocks[j].Ticker
	})
	if stocks == nil {
		stocks = []model.AnalysisResult{}
	}
	return &model.Document{
		LastUpdated: now.Format(time.RFC3339),
		Stocks:      stocks,
	}
}

// Top returns up to n of the highest scored results of doc.
func Top(doc *model.Document, n int) []model.AnalysisResult {
	if doc == nil || n <= 0 {
		return nil
	}
	if n > len(doc.Stocks) {
		n = len(doc.Stocks)
	}
	return doc.Stocks[:n]
}

// Load reads the document from a JSON file. Returns an empty document if the file doesn't exist.
func Load(filePath string) (*model.Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.Document{}, nil
		}
		return nil, err
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	return &doc, nil
}

// Write stores the document as indented JSON. The file is replaced atomically
// so readers never observe a partial document.
func Write(filePath string, doc *model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}
