package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions lists the file types ScanDir offers for printing.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// ScanDir lists the images in dir (non-recursive), sorted by file name.
// Every entry starts selected; the crop flag comes from classifier.
func ScanDir(dir string, classifier *CropClassifier) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read folder %s: %w", dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !IsImageFile(de.Name()) {
			continue
		}
		path := filepath.Join(dir, de.Name())
		entries = append(entries, Entry{
			Path:     path,
			Title:    CleanTitle(de.Name()),
			Selected: true,
			Cropped:  classifier.Classify(path),
		})
	}
	return entries, nil
}

// EntriesFromPaths builds entries for explicit files and directories, in
// argument order. Directories are expanded with ScanDir.
func EntriesFromPaths(paths []string, classifier *CropClassifier) ([]Entry, error) {
	var entries []Entry
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := ScanDir(p, classifier)
			if err != nil {
				return nil, err
			}
			entries = append(entries, found...)
			continue
		}
		entries = append(entries, Entry{
			Path:     p,
			Title:    CleanTitle(p),
			Selected: true,
			Cropped:  classifier.Classify(p),
		})
	}
	return entries, nil
}
