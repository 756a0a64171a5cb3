// Package domain contains the core types shared across tributary:
// records, parent entities, resource types, run reports and errors.
// It has no dependencies on connectors, stores or transports.
package domain
