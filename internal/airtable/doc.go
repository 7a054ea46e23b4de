// Package airtable lists records from an Airtable table over the REST API.
//
// The client requests only records whose Status is "Approved", sorted by
// Start ascending, and follows the opaque offset token page after page until
// the server stops returning one. Records come back in server order. Any
// non-2xx response ends the listing with an *APIError; there are no retries.
package airtable
