package storage

import (
	"bytes"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"

	"fitness-analyzer/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadListings reads a UTF-8 JSON array of listing records from path.
func LoadListings(path string) ([]*models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("json: read %q: %w", path, err)
	}
	return DecodeListings(data)
}

// DecodeListings parses a JSON array of listing records. A leading BOM is ignored.
func DecodeListings(data []byte) ([]*models.Listing, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var listings []*models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("json: decode listings: %w", err)
	}
	return listings, nil
}

// IncompleteIndexes returns the positions of records lacking any of the three
// fitness scores.
func IncompleteIndexes(listings []*models.Listing) []int {
	var idx []int
	for i, l := range listings {
		if l == nil || !l.Fitness.Complete() {
			idx = append(idx, i)
		}
	}
	return idx
}
