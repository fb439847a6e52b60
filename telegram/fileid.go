// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/pkg/errors"

	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
	"github.com/amarnathcjd/mtproto/internal/session"
)

type FileType int32

const (
	FileThumbnail FileType = iota
	FileChatPhoto
	FilePhoto
	FileVoice
	FileVideo
	FileDocument
	FileEncrypted
	FileTemp
	FileSticker
	FileAudio
	FileAnimation
	FileEncryptedThumbnail
	FileWallpaper
	FileVideoNote
	FileSecureRaw
	FileSecure
	FileBackground
	FileDocumentAsFile
)

var fileTypeNames = [...]string{
	"thumbnail", "chat_photo", "photo", "voice", "video", "document", "encrypted", "temp",
	"sticker", "audio", "animation", "encrypted_thumbnail", "wallpaper", "video_note",
	"secure_raw", "secure", "background", "document_as_file",
}

func (t FileType) String() string {
	if t >= 0 && int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return fmt.Sprintf("FileType(%d)", int32(t))
}

// IsPhoto reports whether ids of this type carry a photo size location.
func (t FileType) IsPhoto() bool {
	return t == FilePhoto || t == FileChatPhoto || t == FileThumbnail
}

type ThumbnailSource int32

const (
	ThumbLegacy ThumbnailSource = iota
	ThumbThumbnail
	ThumbChatPhotoSmall
	ThumbChatPhotoBig
	ThumbStickerSetThumbnail
	ThumbStickerSetThumbnailVersion
)

const (
	fileIDMajor = 4
	fileIDMinor = 30

	webLocationFlag   = 1 << 24
	fileReferenceFlag = 1 << 25
)

// FileID is the decoded form of the file ids the Bot API hands out.
type FileID struct {
	Major         uint8
	Minor         uint8
	Type          FileType
	DcID          int32
	FileReference []byte
	URL           string
	MediaID       int64
	AccessHash    int64

	// photo types only
	VolumeID          int64
	ThumbnailSource   ThumbnailSource
	ThumbnailFileType FileType
	ThumbnailSize     string
	Secret            int64
	LocalID           int32

	ChatID               int64
	ChatAccessHash       int64
	StickerSetID         int64
	StickerSetAccessHash int64
	StickerSetVersion    int32
}

// DecodeFileID parses a base64url file id.
func DecodeFileID(s string) (*FileID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "decoding file id")
	}
	data := rleDecode(raw)
	if len(data) < 1 {
		return nil, errors.New("file id is empty")
	}

	f := &FileID{Major: data[len(data)-1]}
	if f.Major < 4 {
		data = data[:len(data)-1]
	} else {
		if len(data) < 2 {
			return nil, errors.New("file id is truncated")
		}
		f.Minor = data[len(data)-2]
		data = data[:len(data)-2]
	}

	d := tl.NewDecoder(data)
	typ := d.PopInt()
	f.DcID = d.PopInt()
	hasWeb := typ&webLocationFlag != 0
	hasRef := typ&fileReferenceFlag != 0
	f.Type = FileType(typ &^ (webLocationFlag | fileReferenceFlag))

	if hasWeb {
		f.URL = d.PopString()
		f.AccessHash = d.PopLong()
		return f, errors.Wrap(d.Err(), "decoding file id")
	}
	if hasRef {
		f.FileReference = d.PopMessage()
	}
	f.MediaID = d.PopLong()
	f.AccessHash = d.PopLong()

	if f.Type.IsPhoto() {
		f.VolumeID = d.PopLong()
		if f.Major >= 4 {
			f.ThumbnailSource = ThumbnailSource(d.PopInt())
		}
		switch f.ThumbnailSource {
		case ThumbLegacy:
			f.Secret = d.PopLong()
			f.LocalID = d.PopInt()
		case ThumbThumbnail:
			f.ThumbnailFileType = FileType(d.PopInt())
			f.ThumbnailSize = string(rune(d.PopUint()))
			f.LocalID = d.PopInt()
		case ThumbChatPhotoSmall, ThumbChatPhotoBig:
			f.ChatID = d.PopLong()
			f.ChatAccessHash = d.PopLong()
			f.LocalID = d.PopInt()
		case ThumbStickerSetThumbnail:
			f.StickerSetID = d.PopLong()
			f.StickerSetAccessHash = d.PopLong()
			f.LocalID = d.PopInt()
		case ThumbStickerSetThumbnailVersion:
			f.StickerSetID = d.PopLong()
			f.StickerSetAccessHash = d.PopLong()
			f.StickerSetVersion = d.PopInt()
		default:
			return nil, errors.Errorf("unknown thumbnail source %d", f.ThumbnailSource)
		}
	}
	if err := d.Err(); err != nil {
		return nil, errors.Wrap(err, "decoding file id")
	}
	return f, nil
}

// Encode packs f. Zero versions are written as the current ones.
func (f *FileID) Encode() (string, error) {
	var buf bytes.Buffer
	e := tl.NewEncoder(&buf)

	typ := int32(f.Type)
	if f.URL != "" {
		typ |= webLocationFlag
	}
	if len(f.FileReference) > 0 {
		typ |= fileReferenceFlag
	}
	e.PutInt(typ)
	e.PutInt(f.DcID)

	if f.URL != "" {
		e.PutString(f.URL)
		e.PutLong(f.AccessHash)
	} else {
		if len(f.FileReference) > 0 {
			e.PutMessage(f.FileReference)
		}
		e.PutLong(f.MediaID)
		e.PutLong(f.AccessHash)
		if f.Type.IsPhoto() {
			e.PutLong(f.VolumeID)
			e.PutInt(int32(f.ThumbnailSource))
			switch f.ThumbnailSource {
			case ThumbLegacy:
				e.PutLong(f.Secret)
				e.PutInt(f.LocalID)
			case ThumbThumbnail:
				var size rune
				if f.ThumbnailSize != "" {
					size = []rune(f.ThumbnailSize)[0]
				}
				e.PutInt(int32(f.ThumbnailFileType))
				e.PutUint(uint32(size))
				e.PutInt(f.LocalID)
			case ThumbChatPhotoSmall, ThumbChatPhotoBig:
				e.PutLong(f.ChatID)
				e.PutLong(f.ChatAccessHash)
				e.PutInt(f.LocalID)
			case ThumbStickerSetThumbnail:
				e.PutLong(f.StickerSetID)
				e.PutLong(f.StickerSetAccessHash)
				e.PutInt(f.LocalID)
			case ThumbStickerSetThumbnailVersion:
				e.PutLong(f.StickerSetID)
				e.PutLong(f.StickerSetAccessHash)
				e.PutInt(f.StickerSetVersion)
			}
		}
	}
	if err := e.CheckErr(); err != nil {
		return "", errors.Wrap(err, "encoding file id")
	}

	major, minor := f.Major, f.Minor
	if major == 0 {
		major, minor = fileIDMajor, fileIDMinor
	}
	buf.WriteByte(minor)
	buf.WriteByte(major)
	return base64.RawURLEncoding.EncodeToString(rleEncode(buf.Bytes())), nil
}

// Location is the upload.getFile location of the file.
func (f *FileID) Location() (InputFileLocation, error) {
	if f.URL != "" {
		return nil, errors.Errorf("web file %s cannot be downloaded with upload.getFile", f.URL)
	}
	switch f.Type {
	case FileChatPhoto:
		var peer InputPeer
		switch {
		case f.ChatID > 0:
			peer = &InputPeerUser{UserID: f.ChatID, AccessHash: f.ChatAccessHash}
		case f.ChatAccessHash == 0:
			peer = &InputPeerChat{ChatID: -f.ChatID}
		default:
			peer = &InputPeerChannel{ChannelID: session.GetChannelID(f.ChatID), AccessHash: f.ChatAccessHash}
		}
		return &InputPeerPhotoFileLocation{
			Big:     f.ThumbnailSource == ThumbChatPhotoBig,
			Peer:    peer,
			PhotoID: f.MediaID,
		}, nil
	case FilePhoto:
		return &InputPhotoFileLocation{
			ID:            f.MediaID,
			AccessHash:    f.AccessHash,
			FileReference: f.FileReference,
			ThumbSize:     f.ThumbnailSize,
		}, nil
	}
	return &InputDocumentFileLocation{
		ID:            f.MediaID,
		AccessHash:    f.AccessHash,
		FileReference: f.FileReference,
		ThumbSize:     f.ThumbnailSize,
	}, nil
}

// FileIDOf builds the file id of a photo or document, the largest size of
// a photo. Documents get their type from their attributes.
func FileIDOf(media any) (*FileID, error) {
	switch m := media.(type) {
	case *MessageMediaPhoto:
		return FileIDOf(m.Photo)
	case *MessageMediaDocument:
		return FileIDOf(m.Document)
	case *PhotoObj:
		return &FileID{
			Major:             fileIDMajor,
			Minor:             fileIDMinor,
			Type:              FilePhoto,
			DcID:              m.DcID,
			FileReference:     m.FileReference,
			MediaID:           m.ID,
			AccessHash:        m.AccessHash,
			ThumbnailSource:   ThumbThumbnail,
			ThumbnailFileType: FilePhoto,
			ThumbnailSize:     largestPhotoSize(m.Sizes),
		}, nil
	case *DocumentObj:
		return &FileID{
			Major:         fileIDMajor,
			Minor:         fileIDMinor,
			Type:          documentType(m.Attributes),
			DcID:          m.DcID,
			FileReference: m.FileReference,
			MediaID:       m.ID,
			AccessHash:    m.AccessHash,
		}, nil
	}
	return nil, errors.Errorf("no file in %T", media)
}

// FileSize is the byte size of media, zero when unknown.
func FileSize(media any) int64 {
	switch m := media.(type) {
	case *MessageMediaPhoto:
		return FileSize(m.Photo)
	case *MessageMediaDocument:
		return FileSize(m.Document)
	case *DocumentObj:
		return m.Size
	case *PhotoObj:
		var size int64
		for _, s := range m.Sizes {
			switch s := s.(type) {
			case *PhotoSizeObj:
				size = max(size, int64(s.Size))
			case *PhotoSizeProgressive:
				if n := len(s.Sizes); n > 0 {
					size = max(size, int64(s.Sizes[n-1]))
				}
			}
		}
		return size
	}
	return 0
}

func documentType(attrs []DocumentAttribute) FileType {
	for _, attr := range attrs {
		switch attr := attr.(type) {
		case *DocumentAttributeAudio:
			if attr.Voice {
				return FileVoice
			}
			return FileAudio
		case *DocumentAttributeVideo:
			if attr.RoundMessage {
				return FileVideoNote
			}
			return FileVideo
		case *DocumentAttributeSticker:
			return FileSticker
		case *DocumentAttributeAnimated:
			return FileAnimation
		}
	}
	return FileDocument
}

func largestPhotoSize(sizes []PhotoSize) string {
	var best string
	var bestSize int32 = -1
	for _, s := range sizes {
		switch s := s.(type) {
		case *PhotoSizeObj:
			if s.Size > bestSize {
				best, bestSize = s.Type, s.Size
			}
		case *PhotoSizeProgressive:
			if n := len(s.Sizes); n > 0 && s.Sizes[n-1] > bestSize {
				best, bestSize = s.Type, s.Sizes[n-1]
			}
		}
	}
	return best
}

// rleEncode collapses every run of zero bytes into 0x00 and the run length.
func rleEncode(data []byte) []byte {
	out := make([]byte, 0, len(data))
	zeros := 0
	flush := func() {
		for zeros > 0 {
			n := min(zeros, 255)
			out = append(out, 0, byte(n))
			zeros -= n
		}
	}
	for _, b := range data {
		if b == 0 {
			zeros++
			continue
		}
		flush()
		out = append(out, b)
	}
	flush()
	return out
}

func rleDecode(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	zero := false
	for _, b := range data {
		switch {
		case zero:
			out = append(out, make([]byte, b)...)
			zero = false
		case b == 0:
			zero = true
		default:
			out = append(out, b)
		}
	}
	return out
}
