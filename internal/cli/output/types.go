package output

// IconInfo describes one discovered icon.
type IconInfo struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// ListOutput is the JSON shape of the list command.
type ListOutput struct {
	InputDir string     `json:"input_dir"`
	Total    int        `json:"total"`
	Icons    []IconInfo `json:"icons"`
}

// BuildOutput is the JSON shape of the build command.
type BuildOutput struct {
	Icons           int    `json:"icons"`
	SpritePath      string `json:"sprite_path"`
	ManifestPath    string `json:"manifest_path"`
	SpriteChanged   bool   `json:"sprite_changed"`
	ManifestChanged bool   `json:"manifest_changed"`
	UpToDate        bool   `json:"up_to_date"`
}

// CheckOutput is the JSON shape of the check command.
type CheckOutput struct {
	Icons         int  `json:"icons"`
	SpriteStale   bool `json:"sprite_stale"`
	ManifestStale bool `json:"manifest_stale"`
	Stale         bool `json:"stale"`
}
