package domain

// Parent is a top-level entity (e.g. a repository) under which
// time-ordered child records are enumerated. Parents are discovered once
// per run by an upstream listing step and are immutable for the run.
type Parent struct {
	// ID is the stable identifier used as the checkpoint key,
	// e.g. "octocat/hello-world".
	ID string

	// Attrs holds attributes needed to build request paths for this
	// parent (owner, name, default branch and the like).
	Attrs map[string]string
}

// Attr returns a named attribute, or empty string when absent.
func (p Parent) Attr(key string) string {
	if p.Attrs == nil {
		return ""
	}
	return p.Attrs[key]
}

// ResourceType namespaces checkpoints and sink tables per child record
// kind. Distinct resource types for the same parent are checkpointed
// independently.
type ResourceType string

const (
	ResourceCommits      ResourceType = "commits"
	ResourceWorkflowRuns ResourceType = "workflow_runs"
	ResourceIssues       ResourceType = "issues"
)
