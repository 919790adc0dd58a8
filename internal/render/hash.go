package render

import (
	"image"
	"math/bits"

	"golang.org/x/image/draw"
)

// DuplicateThreshold is the largest Hamming distance at which two
// difference hashes are reported as the same artwork.
const DuplicateThreshold = 6

// DifferenceHash computes a 64-bit difference hash (dHash) of img. Images
// that only differ in size, compression or slight colour shifts hash to
// values a few bits apart.
func DifferenceHash(img image.Image) uint64 {
	// 9 columns give 8 horizontal differences per row.
	small := image.NewGray(image.Rect(0, 0, 9, 8))
	draw.BiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	var hash uint64
	bit := 63
	for y := range 8 {
		for x := range 8 {
			if small.GrayAt(x, y).Y > small.GrayAt(x+1, y).Y {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash
}

// HammingDistance counts the bits in which two hashes differ.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// HashedImage is an image path with its difference hash.
type HashedImage struct {
	Path string
	Hash uint64
}

// HashFiles loads and hashes every path with loader. Paths that cannot be
// loaded are left out.
func HashFiles(loader Loader, paths []string) []HashedImage {
	hashed := make([]HashedImage, 0, len(paths))
	for _, p := range paths {
		img, err := loader.Load(p)
		if err != nil {
			continue
		}
		hashed = append(hashed, HashedImage{Path: p, Hash: DifferenceHash(img)})
	}
	return hashed
}

// DuplicatePair is two images whose hashes are within the threshold.
type DuplicatePair struct {
	First    string `json:"first"`
	Second   string `json:"second"`
	Distance int    `json:"distance"`
}

// FindDuplicates compares every pair of hashes and returns those at most
// threshold bits apart, in input order.
func FindDuplicates(images []HashedImage, threshold int) []DuplicatePair {
	var pairs []DuplicatePair
	for i := range images {
		for j := i + 1; j < len(images); j++ {
			if d := HammingDistance(images[i].Hash, images[j].Hash); d <= threshold {
				pairs = append(pairs, DuplicatePair{First: images[i].Path, Second: images[j].Path, Distance: d})
			}
		}
	}
	return pairs
}
