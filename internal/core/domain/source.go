package domain

// Source represents a configured data source. Each source is served by a
// connector type and carries connector-specific configuration.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the connector type (e.g. "github", "jira").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Config contains connector-specific configuration.
	Config map[string]string
}
