// Package manifest serialises segmentation results for the UI prototype.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/setanarut/cardseg"
)

// Manifest is the document written next to the prototype sources.
type Manifest struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	SourceImage string                  `json:"sourceImage"`
	Clubs       []cardseg.SegmentResult `json:"clubs"`
}

// New orders results by the layout's region order.
func New(results map[string]cardseg.SegmentResult, regions []cardseg.Region, source string, now time.Time) (Manifest, error) {
	m := Manifest{
		GeneratedAt: now.UTC(),
		SourceImage: source,
		Clubs:       make([]cardseg.SegmentResult, 0, len(regions)),
	}
	for _, r := range regions {
		res, ok := results[r.ID]
		if !ok {
			return Manifest{}, fmt.Errorf("no result for region %q", r.ID)
		}
		m.Clubs = append(m.Clubs, res)
	}
	return m, nil
}

// RelativeSource expresses image relative to the directory holding output,
// falling back to the path as given.
func RelativeSource(image, output string) string {
	if output == "" {
		return image
	}
	absImg, err := filepath.Abs(image)
	if err != nil {
		return image
	}
	absOut, err := filepath.Abs(filepath.Dir(output))
	if err != nil {
		return image
	}
	rel, err := filepath.Rel(absOut, absImg)
	if err != nil {
		return image
	}
	return filepath.ToSlash(rel)
}

// Encode writes m as indented JSON.
func Encode(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteFile writes m to path, creating parent directories.
func WriteFile(path string, m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 - user-specified output path
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return f.Close()
}
