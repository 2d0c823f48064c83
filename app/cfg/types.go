package cfg

type Cfg struct {
	// Blogger credentials
	ClientID     string
	ClientSecret string
	RefreshToken string
	BlogID       string

	// Feed configuration
	FeedURL     string
	SourcesFile string

	// Lifecycle limits
	MaxCreatesPerRun int
	MaxDeletesPerRun int
	CreateDelayMs    int
	DeleteDelayMs    int
	FinishedOffset   int // seconds after kickoff before a post is reclaimable

	// Application configuration
	Port              string
	APIAccessKey      string
	SchedulerInterval int // seconds
	DBPath            string
	Once              bool

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
