package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleIndex = `
- uid: "a1"
  kind: "video"
  original_name: "trip.mp4"
  original_size: 1048576
  title: "Trip"
  description: ""
  encrypted: true
  iv: "00112233445566778899aabbccddeeff"
  creation_time: "2024-01-02 10:00:00"
  mime_type: "video/mp4"
  thumbnail: media/a1/thumb.jpg.enc
  file: media/a1/index.m3u8.enc
  hash: media/a1/md5sum.txt
  size: 2048
  duration: 61.5
- uid: "b2"
  kind: "book"
  title: "Manual"
  encrypted: false
  file: media/b2/book.pdf
  author: "Jane Roe"
  language: "en"
- uid: "c3"
  title: "Untyped"
  file: media/c3/blob.bin
`

func TestParseIndex_Kinds(t *testing.T) {
	records, err := ParseIndex([]byte(sampleIndex))
	require.NoError(t, err)
	require.Len(t, records, 3)

	v := records[0]
	assert.Equal(t, KindVideo, v.Kind())
	assert.Equal(t, "a1", v.UID)
	assert.True(t, v.Encrypted)
	assert.Equal(t, "00112233445566778899aabbccddeeff", v.IV)
	assert.Equal(t, int64(1048576), v.OriginalSize)
	assert.Equal(t, "media/a1/md5sum.txt", v.Hash)
	assert.Equal(t, VideoDetails{Duration: 61.5}, v.Details)

	b := records[1]
	assert.Equal(t, KindBook, b.Kind())
	assert.Equal(t, BookDetails{Author: "Jane Roe", Language: "en"}, b.Details)
	assert.Empty(t, b.IV)

	assert.Equal(t, KindFile, records[2].Kind())
	assert.Equal(t, FileDetails{}, records[2].Details)
}

func TestParseIndex_Empty(t *testing.T) {
	for _, in := range []string{"", "null", "[]", "\n"} {
		records, err := ParseIndex([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	}
}

func TestParseIndex_UnknownKind(t *testing.T) {
	_, err := ParseIndex([]byte("- uid: x\n  kind: hologram\n"))
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseIndex_NotAList(t *testing.T) {
	_, err := ParseIndex([]byte("uid: x\nkind: note\n"))
	require.Error(t, err)
}

func TestMarshalIndex_KeepsKindSpecificFields(t *testing.T) {
	in := []Record{
		NewRecord(Base{UID: "n1", Title: "Note"}, NoteDetails{}),
		NewRecord(Base{UID: "v1", Encrypted: true, IV: "aa"}, VideoDetails{Duration: 3}),
		NewRecord(Base{UID: "b1"}, BookDetails{Author: "A", Language: "de"}),
	}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "author: \"\"")

	out, err := ParseIndex(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("image")
	require.NoError(t, err)
	assert.Equal(t, KindImage, k)

	_, err = ParseKind("Image")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestRecord_AssetPath(t *testing.T) {
	r := NewRecord(Base{Thumbnail: "t.enc", File: "f.enc"}, ImageDetails{})
	assert.Equal(t, "t.enc", r.AssetPath(AssetThumbnail))
	assert.Equal(t, "f.enc", r.AssetPath(AssetFile))
	assert.Empty(t, r.AssetPath(Asset(9)))
	assert.Equal(t, "thumbnail", AssetThumbnail.String())
}

func TestParseKeyInfo(t *testing.T) {
	ki, err := ParseKeyInfo([]byte("key_hash: \"9f86d0\"\niv: \"000102030405060708090a0b0c0d0e0f\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "9f86d0", ki.KeyHash)
	assert.Equal(t, "000102030405060708090a0b0c0d0e0f", ki.IV)

	_, err = ParseKeyInfo([]byte("key_hash: [unclosed"))
	require.Error(t, err)
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 << 40, "3.00 TB"},
		{1 << 62, "4096.00 PB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.in), "HumanSize(%d)", tt.in)
	}
}
