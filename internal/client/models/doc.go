// Package models defines the vault's data model.
//
// A Record is a tagged union: common fields live in Base and the
// kind-specific part in Details, which is one of NoteDetails, VideoDetails,
// ImageDetails, BookDetails or FileDetails. The index is a YAML list of flat
// maps; ParseIndex decodes it into []Record and Record.MarshalYAML writes the
// same shape back.
//
// KeyInfo is the plaintext key descriptor the server publishes next to the
// encrypted index.
package models
