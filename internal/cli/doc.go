// Package cli implements the airtable-events command line.
//
// The Cobra root command layers defaults, an optional YAML file and flags
// into a config.Config, checks the Airtable credentials, and hands the
// Airtable client, the output writers and the display timezone to an
// export.Exporter. It prints a short text or JSON summary of what changed.
// Any failure exits with status 1.
package cli
