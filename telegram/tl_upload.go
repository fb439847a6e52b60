// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"github.com/amarnathcjd/mtproto/internal/encoding/tl"
)

// StorageFileType carries no fields, Kind is its constructor id.
type StorageFileType struct {
	Kind uint32
}

const (
	StorageFileUnknown = 0xaa963b05
	StorageFilePartial = 0x40bc6f52
	StorageFileJpeg    = 0x007efe0e
	StorageFileGif     = 0xcae1aadf
	StorageFilePng     = 0x0a4f63c0
	StorageFilePdf     = 0xae1e508d
	StorageFileMp3     = 0x528a0677
	StorageFileMov     = 0x4b09ebbc
	StorageFileMp4     = 0xb3cea0e4
	StorageFileWebp    = 0x1081464c
)

var storageFileKinds = []uint32{
	StorageFileUnknown, StorageFilePartial, StorageFileJpeg, StorageFileGif, StorageFilePng,
	StorageFilePdf, StorageFileMp3, StorageFileMov, StorageFileMp4, StorageFileWebp,
}

func (t *StorageFileType) CRC() uint32 { return t.Kind }

type UploadFile interface {
	tl.Object
	ImplementsUploadFile()
}

type UploadFileObj struct {
	Type  *StorageFileType
	Mtime int32
	Bytes []byte
}

func (*UploadFileObj) CRC() uint32           { return 0x096a18d5 }
func (*UploadFileObj) ImplementsUploadFile() {}

func (t *UploadFileObj) MarshalTL(e *tl.Encoder) error {
	e.PutObject(t.Type)
	e.PutInt(t.Mtime)
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func (t *UploadFileObj) UnmarshalTL(d *tl.Decoder) error {
	t.Type = tl.PopObjectAs[*StorageFileType](d)
	t.Mtime = d.PopInt()
	t.Bytes = d.PopMessage()
	return d.Err()
}

// UploadFileCdnRedirect tells the client to fetch the file from a CDN
// datacenter, decrypting it with EncryptionKey and EncryptionIv.
type UploadFileCdnRedirect struct {
	DcID          int32
	FileToken     []byte
	EncryptionKey []byte
	EncryptionIv  []byte
	FileHashes    []*FileHash
}

func (*UploadFileCdnRedirect) CRC() uint32           { return 0xf18cda44 }
func (*UploadFileCdnRedirect) ImplementsUploadFile() {}

func (t *UploadFileCdnRedirect) MarshalTL(e *tl.Encoder) error {
	e.PutInt(t.DcID)
	e.PutMessage(t.FileToken)
	e.PutMessage(t.EncryptionKey)
	e.PutMessage(t.EncryptionIv)
	tl.PutVector(e, t.FileHashes)
	return e.CheckErr()
}

func (t *UploadFileCdnRedirect) UnmarshalTL(d *tl.Decoder) error {
	t.DcID = d.PopInt()
	t.FileToken = d.PopMessage()
	t.EncryptionKey = d.PopMessage()
	t.EncryptionIv = d.PopMessage()
	t.FileHashes = tl.PopVector[*FileHash](d)
	return d.Err()
}

type UploadCdnFile interface {
	tl.Object
	ImplementsUploadCdnFile()
}

type UploadCdnFileObj struct {
	Bytes []byte
}

func (*UploadCdnFileObj) CRC() uint32              { return 0xa99fca4f }
func (*UploadCdnFileObj) ImplementsUploadCdnFile() {}

func (t *UploadCdnFileObj) MarshalTL(e *tl.Encoder) error {
	e.PutMessage(t.Bytes)
	return e.CheckErr()
}

func (t *UploadCdnFileObj) UnmarshalTL(d *tl.Decoder) error {
	t.Bytes = d.PopMessage()
	return d.Err()
}

type UploadCdnFileReuploadNeeded struct {
	RequestToken []byte
}

func (*UploadCdnFileReuploadNeeded) CRC() uint32              { return 0xeea8e46e }
func (*UploadCdnFileReuploadNeeded) ImplementsUploadCdnFile() {}

func (t *UploadCdnFileReuploadNeeded) MarshalTL(e *tl.Encoder) error {
	e.PutMessage(t.RequestToken)
	return e.CheckErr()
}

func (t *UploadCdnFileReuploadNeeded) UnmarshalTL(d *tl.Decoder) error {
	t.RequestToken = d.PopMessage()
	return d.Err()
}

// FileHash is the SHA-256 of Limit bytes of a CDN file starting at Offset.
type FileHash struct {
	Offset int64
	Limit  int32
	Hash   []byte
}

func (*FileHash) CRC() uint32 { return 0xf39b035c }

func (t *FileHash) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.Offset)
	e.PutInt(t.Limit)
	e.PutMessage(t.Hash)
	return e.CheckErr()
}

func (t *FileHash) UnmarshalTL(d *tl.Decoder) error {
	t.Offset = d.PopLong()
	t.Limit = d.PopInt()
	t.Hash = d.PopMessage()
	return d.Err()
}

type InputFile interface {
	tl.Object
	ImplementsInputFile()
}

type InputFileObj struct {
	ID          int64
	Parts       int32
	Name        string
	Md5Checksum string
}

func (*InputFileObj) CRC() uint32          { return 0xf52ff27f }
func (*InputFileObj) ImplementsInputFile() {}

func (t *InputFileObj) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutInt(t.Parts)
	e.PutString(t.Name)
	e.PutString(t.Md5Checksum)
	return e.CheckErr()
}

func (t *InputFileObj) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	t.Parts = d.PopInt()
	t.Name = d.PopString()
	t.Md5Checksum = d.PopString()
	return d.Err()
}

type InputFileBig struct {
	ID    int64
	Parts int32
	Name  string
}

func (*InputFileBig) CRC() uint32          { return 0xfa4f0bb5 }
func (*InputFileBig) ImplementsInputFile() {}

func (t *InputFileBig) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutInt(t.Parts)
	e.PutString(t.Name)
	return e.CheckErr()
}

func (t *InputFileBig) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	t.Parts = d.PopInt()
	t.Name = d.PopString()
	return d.Err()
}

type InputFileLocation interface {
	tl.Object
	ImplementsInputFileLocation()
}

type InputPhotoFileLocation struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	ThumbSize     string
}

func (*InputPhotoFileLocation) CRC() uint32                  { return 0x40181ffe }
func (*InputPhotoFileLocation) ImplementsInputFileLocation() {}

func (t *InputPhotoFileLocation) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutLong(t.AccessHash)
	e.PutMessage(t.FileReference)
	e.PutString(t.ThumbSize)
	return e.CheckErr()
}

func (t *InputPhotoFileLocation) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	t.AccessHash = d.PopLong()
	t.FileReference = d.PopMessage()
	t.ThumbSize = d.PopString()
	return d.Err()
}

type InputDocumentFileLocation struct {
	ID            int64
	AccessHash    int64
	FileReference []byte
	ThumbSize     string
}

func (*InputDocumentFileLocation) CRC() uint32                  { return 0xbad07584 }
func (*InputDocumentFileLocation) ImplementsInputFileLocation() {}

func (t *InputDocumentFileLocation) MarshalTL(e *tl.Encoder) error {
	e.PutLong(t.ID)
	e.PutLong(t.AccessHash)
	e.PutMessage(t.FileReference)
	e.PutString(t.ThumbSize)
	return e.CheckErr()
}

func (t *InputDocumentFileLocation) UnmarshalTL(d *tl.Decoder) error {
	t.ID = d.PopLong()
	t.AccessHash = d.PopLong()
	t.FileReference = d.PopMessage()
	t.ThumbSize = d.PopString()
	return d.Err()
}

type InputPeerPhotoFileLocation struct {
	Big     bool
	Peer    InputPeer
	PhotoID int64
}

func (*InputPeerPhotoFileLocation) CRC() uint32                  { return 0x37257e99 }
func (*InputPeerPhotoFileLocation) ImplementsInputFileLocation() {}

func (t *InputPeerPhotoFileLocation) MarshalTL(e *tl.Encoder) error {
	var f flags
	f.set(0, t.Big)
	e.PutUint(uint32(f))
	e.PutObject(t.Peer)
	e.PutLong(t.PhotoID)
	return e.CheckErr()
}

func (t *InputPeerPhotoFileLocation) UnmarshalTL(d *tl.Decoder) error {
	t.Big = flags(d.PopUint()).has(0)
	t.Peer = tl.PopObjectAs[InputPeer](d)
	t.PhotoID = d.PopLong()
	return d.Err()
}
