// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRLE(t *testing.T) {
	assert.Equal(t, []byte{1, 0, 3, 2}, rleEncode([]byte{1, 0, 0, 0, 2}))
	assert.Equal(t, []byte{0, 1}, rleEncode([]byte{0}))

	long := append(make([]byte, 300), 7)
	enc := rleEncode(long)
	assert.Equal(t, []byte{0, 255, 0, 45, 7}, enc)
	assert.Equal(t, long, rleDecode(enc))

	data := []byte{9, 0, 0, 1, 0, 5, 0, 0, 0, 0}
	assert.Equal(t, data, rleDecode(rleEncode(data)))
}

func TestFileIDRoundTrip(t *testing.T) {
	for name, f := range map[string]*FileID{
		"document": {
			Type:          FileDocument,
			DcID:          4,
			FileReference: bytes.Repeat([]byte{0, 1, 0}, 10),
			MediaID:       5413563843200418001,
			AccessHash:    -7361234,
		},
		"photo": {
			Type:              FilePhoto,
			DcID:              2,
			FileReference:     []byte("ref"),
			MediaID:           11,
			AccessHash:        12,
			ThumbnailSource:   ThumbThumbnail,
			ThumbnailFileType: FilePhoto,
			ThumbnailSize:     "y",
		},
		"chat photo": {
			Type:            FileChatPhoto,
			DcID:            1,
			MediaID:         21,
			ThumbnailSource: ThumbChatPhotoBig,
			ChatID:          -1001234567890,
			ChatAccessHash:  99,
		},
		"sticker set thumbnail": {
			Type:                 FileThumbnail,
			DcID:                 5,
			ThumbnailSource:      ThumbStickerSetThumbnailVersion,
			StickerSetID:         31,
			StickerSetAccessHash: 32,
			StickerSetVersion:    3,
		},
		"web": {
			Type:       FileDocument,
			DcID:       1,
			URL:        "https://example.com/cat.png",
			AccessHash: 1,
		},
	} {
		t.Run(name, func(t *testing.T) {
			f.Major, f.Minor = fileIDMajor, fileIDMinor
			s, err := f.Encode()
			require.NoError(t, err)
			assert.NotContains(t, s, "=")

			got, err := DecodeFileID(s)
			require.NoError(t, err)
			assert.Equal(t, f, got)
		})
	}
}

func TestFileIDDefaultsVersion(t *testing.T) {
	s, err := (&FileID{Type: FileVideo, DcID: 2, MediaID: 1, AccessHash: 2}).Encode()
	require.NoError(t, err)
	f, err := DecodeFileID(s)
	require.NoError(t, err)
	assert.Equal(t, uint8(fileIDMajor), f.Major)
	assert.Equal(t, uint8(fileIDMinor), f.Minor)
	assert.Equal(t, "video", f.Type.String())
}

func TestDecodeFileIDErrors(t *testing.T) {
	_, err := DecodeFileID("not base64!")
	assert.Error(t, err)
	_, err = DecodeFileID("")
	assert.Error(t, err)
	_, err = DecodeFileID("BAQ")
	assert.Error(t, err, "truncated body")
}

func TestFileIDLocation(t *testing.T) {
	loc, err := (&FileID{Type: FilePhoto, MediaID: 1, AccessHash: 2, FileReference: []byte{3}, ThumbnailSize: "x"}).Location()
	require.NoError(t, err)
	assert.Equal(t, &InputPhotoFileLocation{ID: 1, AccessHash: 2, FileReference: []byte{3}, ThumbSize: "x"}, loc)

	loc, err = (&FileID{Type: FileSticker, MediaID: 4, AccessHash: 5}).Location()
	require.NoError(t, err)
	assert.Equal(t, &InputDocumentFileLocation{ID: 4, AccessHash: 5}, loc)

	loc, err = (&FileID{
		Type:            FileChatPhoto,
		MediaID:         6,
		ThumbnailSource: ThumbChatPhotoSmall,
		ChatID:          -1000000000042,
		ChatAccessHash:  7,
	}).Location()
	require.NoError(t, err)
	assert.Equal(t, &InputPeerPhotoFileLocation{
		Peer:    &InputPeerChannel{ChannelID: 42, AccessHash: 7},
		PhotoID: 6,
	}, loc)

	loc, err = (&FileID{Type: FileChatPhoto, ThumbnailSource: ThumbChatPhotoBig, ChatID: -42}).Location()
	require.NoError(t, err)
	assert.Equal(t, &InputPeerChat{ChatID: 42}, loc.(*InputPeerPhotoFileLocation).Peer)
	assert.True(t, loc.(*InputPeerPhotoFileLocation).Big)

	_, err = (&FileID{URL: "https://example.com"}).Location()
	assert.Error(t, err)
}

func TestFileIDOfMedia(t *testing.T) {
	photo := &PhotoObj{ID: 1, AccessHash: 2, FileReference: []byte{3}, DcID: 4, Sizes: []PhotoSize{
		&PhotoSizeObj{Type: "m", Size: 1000},
		&PhotoSizeProgressive{Type: "y", Sizes: []int32{500, 4000}},
		&PhotoSizeObj{Type: "x", Size: 2000},
	}}
	f, err := FileIDOf(&MessageMediaPhoto{Photo: photo})
	require.NoError(t, err)
	assert.Equal(t, FilePhoto, f.Type)
	assert.Equal(t, int32(4), f.DcID)
	assert.Equal(t, "y", f.ThumbnailSize)
	assert.Equal(t, int64(4000), FileSize(photo))

	voice := &DocumentObj{ID: 5, DcID: 2, Size: 12345, Attributes: []DocumentAttribute{
		&DocumentAttributeFilename{FileName: "note.ogg"},
		&DocumentAttributeAudio{Voice: true},
	}}
	f, err = FileIDOf(&MessageMediaDocument{Document: voice})
	require.NoError(t, err)
	assert.Equal(t, FileVoice, f.Type)
	assert.Equal(t, int64(12345), FileSize(&MessageMediaDocument{Document: voice}))

	round := &DocumentObj{Attributes: []DocumentAttribute{&DocumentAttributeVideo{RoundMessage: true}}}
	f, err = FileIDOf(round)
	require.NoError(t, err)
	assert.Equal(t, FileVideoNote, f.Type)

	_, err = FileIDOf(&MessageMediaEmpty{})
	assert.Error(t, err)
	assert.Zero(t, FileSize("nothing"))
}
