// Package types provides type definitions for structured data used throughout the harvester.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Lang identifies which link set a record was harvested from.
type Lang string

const (
	// LangEnglish is the English link set.
	LangEnglish Lang = "en"
	// LangMarathi is the Marathi link set.
	LangMarathi Lang = "mr"
)

// Langs lists the supported languages in processing order.
func Langs() []Lang {
	return []Lang{LangEnglish, LangMarathi}
}

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	return l == LangEnglish || l == LangMarathi
}

// ParseLang converts a string into a Lang.
func ParseLang(s string) (Lang, error) {
	l := Lang(s)
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q (expected en or mr)", s)
	}
	return l, nil
}

// Record is one persisted line of an output file.
// PDFLinks, PhoneNumbers and MapLinks are sets, stored sorted.
type Record struct {
	PDFLinks     []string `json:"pdf_links"`
	PhoneNumbers []string `json:"phone_numbers"`
	MapLinks     []string `json:"map_links"`
	Raw          any      `json:"raw"`
	SourceURL    string   `json:"source_url"`
	Lang         Lang     `json:"lang"`
}

// MarshalJSON always emits the three link lists, using [] instead of null.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	out := plain(r)
	out.PDFLinks = nonNil(out.PDFLinks)
	out.PhoneNumbers = nonNil(out.PhoneNumbers)
	out.MapLinks = nonNil(out.MapLinks)
	return marshalNoEscape(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CanonicalJSON is the single serialization used for hashing, extraction and persistence.
// Map keys are sorted by encoding/json, HTML characters are left unescaped and
// json.Number values are written verbatim, so a decoded value re-encodes to the same bytes.
func CanonicalJSON(v any) ([]byte, error) {
	return marshalNoEscape(v)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeJSON decodes data into a generic value, keeping numbers as json.Number.
// Trailing data after the first value is an error.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}
	return v, nil
}
