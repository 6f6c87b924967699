package models

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the record union.
type Kind string

const (
	KindNote  Kind = "note"
	KindVideo Kind = "video"
	KindImage Kind = "image"
	KindBook  Kind = "book"
	KindFile  Kind = "file"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindNote, KindVideo, KindImage, KindBook, KindFile}

var ErrUnknownKind = errors.New("unknown record kind")

// ParseKind validates s as a record kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Base holds the fields every record carries.
type Base struct {
	UID          string `yaml:"uid"`
	OriginalName string `yaml:"original_name"`
	OriginalSize int64  `yaml:"original_size"`
	OriginalHash string `yaml:"original_hash"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	// Encrypted tells whether File and Thumbnail hold ciphertext.
	Encrypted bool `yaml:"encrypted"`
	// IV is hex and present iff Encrypted.
	IV           string `yaml:"iv,omitempty"`
	CreationTime string `yaml:"creation_time"`
	MimeType     string `yaml:"mime_type"`
	Thumbnail    string `yaml:"thumbnail"`
	File         string `yaml:"file"`
	Hash         string `yaml:"hash"`
	Size         int64  `yaml:"size"`
}

// Details is the kind-specific part of a record. It is sealed: the only
// implementations are the *Details types in this package.
type Details interface {
	kind() Kind
}

type NoteDetails struct{}

type VideoDetails struct {
	// Duration in seconds.
	Duration float64
}

type ImageDetails struct{}

type BookDetails struct {
	Author   string
	Language string
}

type FileDetails struct{}

func (NoteDetails) kind() Kind  { return KindNote }
func (VideoDetails) kind() Kind { return KindVideo }
func (ImageDetails) kind() Kind { return KindImage }
func (BookDetails) kind() Kind  { return KindBook }
func (FileDetails) kind() Kind  { return KindFile }

// Record is one entry of the vault index.
type Record struct {
	Base
	Details Details
}

// Kind returns the record's discriminator.
func (r Record) Kind() Kind {
	if r.Details == nil {
		return KindFile
	}
	return r.Details.kind()
}

// NewRecord pairs base fields with kind-specific details.
func NewRecord(base Base, details Details) Record {
	return Record{Base: base, Details: details}
}

// yamlRecord is the flat on-disk shape.
type yamlRecord struct {
	Base     `yaml:",inline"`
	Kind     Kind    `yaml:"kind"`
	Duration float64 `yaml:"duration,omitempty"`
	Author   string  `yaml:"author,omitempty"`
	Language string  `yaml:"language,omitempty"`
}

// UnmarshalYAML decodes the flat index shape into the union. A missing kind
// means file, which is what the importer writes by default.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var raw yamlRecord
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Kind == "" {
		raw.Kind = KindFile
	}

	var d Details
	switch raw.Kind {
	case KindNote:
		d = NoteDetails{}
	case KindVideo:
		d = VideoDetails{Duration: raw.Duration}
	case KindImage:
		d = ImageDetails{}
	case KindBook:
		d = BookDetails{Author: raw.Author, Language: raw.Language}
	case KindFile:
		d = FileDetails{}
	default:
		return fmt.Errorf("record %q: %w: %q", raw.UID, ErrUnknownKind, raw.Kind)
	}

	*r = Record{Base: raw.Base, Details: d}
	return nil
}

// MarshalYAML writes the flat shape back, emitting only the fields that
// belong to the record's kind.
func (r Record) MarshalYAML() (any, error) {
	raw := yamlRecord{Base: r.Base, Kind: r.Kind()}
	switch d := r.Details.(type) {
	case VideoDetails:
		raw.Duration = d.Duration
	case BookDetails:
		raw.Author = d.Author
		raw.Language = d.Language
	case NoteDetails, ImageDetails, FileDetails, nil:
	}
	return raw, nil
}

// ParseIndex decodes a decrypted index. Empty or null input is an empty
// index.
func ParseIndex(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
