package entity

// Setting is one key/value pair from the settings collection. Values are
// opaque strings; an empty string is a valid stored value, distinct from the
// key being absent.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
