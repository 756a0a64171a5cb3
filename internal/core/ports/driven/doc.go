// Package driven defines the outbound ports of the extraction core:
// the paginated fetch transport, checkpoint persistence, the record sink
// and credential providers. Adapters and connectors implement these.
package driven
