package airtable

// Record is one row of an Airtable table.
type Record struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime"`
	Fields      Fields `json:"fields"`
}

// Fields is a record's field bag, keyed by Airtable field name.
// Airtable omits empty fields from the response entirely.
type Fields map[string]interface{}

// String returns the named field when it holds a string, otherwise "".
func (f Fields) String(name string) string {
	if s, ok := f[name].(string); ok {
		return s
	}
	return ""
}

// listResponse is one page of GET /v0/{baseId}/{table}.
type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}
