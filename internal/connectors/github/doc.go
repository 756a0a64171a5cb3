// Package github implements the GitHub connector: parent discovery over
// an organisation's repositories, a paginated REST fetcher, and the
// commits and workflow-run resources extracted incrementally per
// repository.
package github
