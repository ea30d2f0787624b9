package schedule

import "encoding/json"

// ManifestItem records what is known about one background image key.
type ManifestItem struct {
	Opponent          string `json:"opponent,omitempty"`
	Venue             string `json:"venue,omitempty"`
	Date              string `json:"date,omitempty"`
	SuggestedFilename string `json:"suggested_filename,omitempty"`
	Exists            bool   `json:"exists"`
}

// Manifest maps background image keys to existence records.
type Manifest struct {
	ImagesDirectory string                  `json:"images_directory,omitempty"`
	Items           map[string]ManifestItem `json:"items"`
}

// Exists reports whether the manifest marks key as present. A nil manifest knows nothing.
func (m *Manifest) Exists(key string) bool {
	if m == nil || m.Items == nil {
		return false
	}
	item, ok := m.Items[key]
	return ok && item.Exists
}

// Len returns the number of manifest entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Items)
}

// DecodeManifest parses an image manifest document.
func DecodeManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Items == nil {
		m.Items = map[string]ManifestItem{}
	}
	return &m, nil
}
