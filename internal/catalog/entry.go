// Package catalog describes the images offered for printing and how they
// are discovered: directory scans, YAML selection manifests and the
// file-name classifier that proposes a default crop flag.
package catalog

// Entry is an immutable snapshot of one image as the user left it at
// export time.
type Entry struct {
	Path     string `yaml:"path" json:"path"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Selected bool   `yaml:"selected" json:"selected"`
	Cropped  bool   `yaml:"cropped" json:"cropped"`
}

// Selected returns the selected entries in their original order.
func Selected(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}
