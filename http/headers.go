package http

import "strings"

// Header is a single header as it will be written.
type Header struct {
	Name  string
	Value string
}

// HeaderSet keeps headers in insertion order. Names are stored as given and
// matched case-insensitively.
type HeaderSet []Header

// Get returns the value for name, or "" when absent.
func (h HeaderSet) Get(name string) string {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value
		}
	}
	return ""
}

// Has reports whether name is present.
func (h HeaderSet) Has(name string) bool {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return true
		}
	}
	return false
}

// Set replaces an existing entry in place or appends a new one.
func (h *HeaderSet) Set(name, value string) {
	for i, hdr := range *h {
		if strings.EqualFold(hdr.Name, name) {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Header{Name: name, Value: value})
}
