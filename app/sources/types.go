package sources

// Source is one upstream feed endpoint.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// File is the on-disk shape of the optional sources file.
type File struct {
	Sources []Source `yaml:"sources"`
}
