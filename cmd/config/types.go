package config

// ContextConfig holds context-related flags
type ContextConfig struct {
	JSON string
	KV   []string
	File string
}

// UploadConfig holds upload-related flags
type UploadConfig struct {
	Provider   string
	Config     string
	ConfigKV   []string
	ConfigFile string
}

// WebhookConfig holds webhook-related flags
type WebhookConfig struct {
	// Direct configuration flags
	URL        string
	Method     string // HTTP method (GET, POST, PUT, PATCH, DELETE)
	AuthType   string
	AuthToken  string
	Timeout    string
	Retries    int
	RetryDelay string

	// Alternative configuration methods
	Config     string   // JSON string configuration
	ConfigKV   []string // Key-value pairs
	ConfigFile string   // Path to JSON config file
}

// DiffFlags holds the 2D diff and layout flags
type DiffFlags struct {
	Buffer     int
	Filler     string
	Horizontal bool
	Layout     string
}

// SourceFlags selects how document text is obtained
type SourceFlags struct {
	Kind       string
	ExtractCmd string
}

// OutputFlags holds result destination flags
type OutputFlags struct {
	Dir     string
	JSON    bool
	Workers int
}
