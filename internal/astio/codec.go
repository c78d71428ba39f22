package astio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is a document encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

var (
	ErrUnknownFormat = errors.New("unknown document format")
	ErrSchema        = errors.New("unsupported schema version")
)

var schemaConstraint = mustConstraint("^1.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".astpack", ".mp", ".msgpack":
		return FormatMsgpack, nil
	default:
		return FormatUnknown, fmt.Errorf("astio: %s: %w", path, ErrUnknownFormat)
	}
}

// IsDocumentPath reports whether path has a recognised document extension.
func IsDocumentPath(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// CheckSchema rejects documents written for an incompatible schema major.
// An empty schema is accepted as the current version.
func CheckSchema(doc *Document) error {
	if doc == nil {
		return errors.New("astio: nil document")
	}
	if doc.Schema == "" {
		return nil
	}
	v, err := semver.NewVersion(doc.Schema)
	if err != nil {
		return fmt.Errorf("astio: schema %q: %w", doc.Schema, errors.Join(ErrSchema, err))
	}
	if !schemaConstraint.Check(v) {
		return fmt.Errorf("astio: schema %s: %w (want %s)", v, ErrSchema, schemaConstraint)
	}
	return nil
}

func DecodeJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("astio: decode json: %w", err)
	}
	if err := CheckSchema(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func DecodeMsgpack(r io.Reader) (*Document, error) {
	var doc Document
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("astio: decode msgpack: %w", err)
	}
	if err := CheckSchema(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Decode parses data in the encoding implied by path. An empty document Path is
// filled in from path.
func Decode(path string, data []byte) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	var doc *Document
	switch format {
	case FormatJSON:
		doc, err = DecodeJSON(bytes.NewReader(data))
	case FormatMsgpack:
		doc, err = DecodeMsgpack(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Path == "" {
		doc.Path = path
	}
	return doc, nil
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("astio: read: %w", err)
	}
	return Decode(path, data)
}

func EncodeJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stamped(doc)); err != nil {
		return fmt.Errorf("astio: encode json: %w", err)
	}
	return nil
}

func EncodeMsgpack(w io.Writer, doc *Document) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(stamped(doc)); err != nil {
		return fmt.Errorf("astio: encode msgpack: %w", err)
	}
	return nil
}

// Encode writes doc in the encoding implied by path.
func Encode(path string, w io.Writer, doc *Document) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatJSON {
		return EncodeJSON(w, doc)
	}
	return EncodeMsgpack(w, doc)
}

func stamped(doc *Document) *Document {
	if doc.Schema != "" {
		return doc
	}
	cp := *doc
	cp.Schema = SchemaVersion
	return &cp
}
