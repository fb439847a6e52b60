// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"bytes"
	"context"
	"io"
	"math"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	mtproto "github.com/amarnathcjd/mtproto"
	ige "github.com/amarnathcjd/mtproto/internal/aes_ige"
	"github.com/amarnathcjd/mtproto/internal/utils"
)

// ErrStopTransmission aborts a transfer when returned from a progress or
// chunk callback. Transfers return it unwrapped.
var ErrStopTransmission = errors.New("transmission stopped")

const downloadChunkSize = 1024 * 1024

// Progress is called after every chunk or part with the bytes done so far
// and the total, zero when unknown.
type Progress func(current, total int64) error

type GetFileOptions struct {
	// Size is only used for progress.
	Size int64
	// Limit is the number of chunks to fetch, zero for all.
	Limit int
	// Offset is the first chunk to fetch.
	Offset   int
	Progress Progress
}

// GetFile fetches the file in 1 MiB chunks from the datacenter it lives on
// and hands each chunk to yield in order. CDN redirects are followed.
func (c *Client) GetFile(ctx context.Context, file *FileID, opts GetFileOptions, yield func(chunk []byte) error) (err error) {
	if err := c.transmissions.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.transmissions.Release(1)

	ctx, span := c.tracer.Start(ctx, "telegram.get_file", trace.WithAttributes(
		attribute.Int("telegram.dc", int(file.DcID)),
		attribute.String("telegram.file_type", file.Type.String()),
	))
	defer func() {
		if err != nil && !errors.Is(err, ErrStopTransmission) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	location, err := file.Location()
	if err != nil {
		return err
	}
	origin, err := c.mediaSession(ctx, int(file.DcID))
	if err != nil {
		return errors.Wrapf(err, "opening media session to dc %d", file.DcID)
	}

	total := abs(opts.Limit)
	if total == 0 {
		total = math.MaxInt32
	}
	t := &download{
		c:        c,
		log:      c.Log.WithPrefix("media"),
		origin:   origin,
		location: location,
		offset:   int64(abs(opts.Offset)) * downloadChunkSize,
		total:    total,
		size:     opts.Size,
		progress: opts.Progress,
		yield:    yield,
	}
	return t.run(ctx)
}

// download is the state of one GetFile call.
type download struct {
	c        *Client
	log      *utils.Logger
	origin   Session
	location InputFileLocation

	offset  int64
	current int
	total   int
	size    int64

	progress Progress
	yield    func([]byte) error
}

func (t *download) run(ctx context.Context) error {
	for {
		r, err := UploadGetFile(ctx, t.origin, &UploadGetFileParams{
			CdnSupported: true,
			Location:     t.location,
			Offset:       t.offset,
			Limit:        downloadChunkSize,
		})
		if err != nil {
			return errors.Wrapf(err, "fetching offset %d", t.offset)
		}

		switch r := r.(type) {
		case *UploadFileObj:
			done, err := t.deliver(r.Bytes)
			if err != nil || done {
				return err
			}
		case *UploadFileCdnRedirect:
			return t.fromCDN(ctx, r)
		default:
			return errors.Errorf("unexpected %T from upload.getFile", r)
		}
	}
}

// fromCDN finishes the download on the CDN datacenter of redirect.
// Chunks are decrypted, checked against the hashes of the origin and
// fetched again when they do not match.
func (t *download) fromCDN(ctx context.Context, redirect *UploadFileCdnRedirect) error {
	t.log.Debug("redirected to cdn dc %d at offset %d", redirect.DcID, t.offset)
	cdn, err := t.c.cdnSession(ctx, int(redirect.DcID))
	if err != nil {
		return errors.Wrapf(err, "opening cdn session to dc %d", redirect.DcID)
	}
	defer func() {
		if err := cdn.Terminate(); err != nil {
			t.log.Debug("closing cdn session: %v", err)
		}
	}()

	for {
		r, err := UploadGetCdnFile(ctx, cdn, &UploadGetCdnFileParams{
			FileToken: redirect.FileToken,
			Offset:    t.offset,
			Limit:     downloadChunkSize,
		})
		if err != nil {
			return errors.Wrapf(err, "fetching cdn offset %d", t.offset)
		}

		switch r := r.(type) {
		case *UploadCdnFileReuploadNeeded:
			t.c.metrics.CDNReupload()
			_, err := UploadReuploadCdnFile(ctx, t.origin, redirect.FileToken, r.RequestToken)
			if mtproto.MatchError(err, "VOLUME_LOC_NOT_FOUND") {
				return errors.Wrapf(err, "cdn dc %d cannot get the file at offset %d", redirect.DcID, t.offset)
			}
			if err != nil {
				return errors.Wrap(err, "requesting cdn reupload")
			}
			continue

		case *UploadCdnFileObj:
			plain, err := t.decrypt(ctx, redirect, r.Bytes)
			if err != nil {
				return err
			}
			ok, err := t.verify(ctx, redirect.FileToken, plain)
			if err != nil {
				return err
			}
			if !ok {
				t.c.metrics.CDNHashMismatch()
				t.log.Warn("cdn chunk at offset %d does not match its hash, fetching it again", t.offset)
				continue
			}
			done, err := t.deliver(plain)
			if err != nil || done {
				return err
			}

		default:
			return errors.Errorf("unexpected %T from upload.getCdnFile", r)
		}
	}
}

func (t *download) decrypt(ctx context.Context, redirect *UploadFileCdnRedirect, data []byte) ([]byte, error) {
	var plain []byte
	err := t.c.crypto.Do(ctx, func() error {
		var err error
		plain, err = ige.DecryptCDNChunk(redirect.EncryptionKey, redirect.EncryptionIv, t.offset, data)
		return err
	})
	return plain, errors.Wrapf(err, "decrypting cdn offset %d", t.offset)
}

// verify checks every hash the origin has for the chunk at the current
// offset. Hashes are matched by their own offset, so a short last chunk
// is checked up to its end.
func (t *download) verify(ctx context.Context, fileToken, chunk []byte) (bool, error) {
	hashes, err := UploadGetCdnFileHashes(ctx, t.origin, fileToken, t.offset)
	if err != nil {
		return false, errors.Wrapf(err, "fetching cdn hashes at offset %d", t.offset)
	}
	for _, h := range hashes {
		start := h.Offset - t.offset
		if start < 0 || start >= int64(len(chunk)) {
			continue
		}
		end := min(start+int64(h.Limit), int64(len(chunk)))
		if !bytes.Equal(utils.Sha256(chunk[start:end]), h.Hash) {
			return false, nil
		}
	}
	return true, nil
}

// deliver yields one chunk, advances the offset and reports progress. It
// reports whether the download is complete.
func (t *download) deliver(chunk []byte) (bool, error) {
	if err := t.yield(chunk); err != nil {
		return false, err
	}
	t.current++
	t.offset += downloadChunkSize
	t.c.metrics.Downloaded(len(chunk))

	if t.progress != nil {
		done := t.offset
		if t.size != 0 {
			done = min(t.offset, t.size)
		}
		if err := t.progress(done, t.size); err != nil {
			return false, err
		}
	}
	return len(chunk) < downloadChunkSize || t.current >= t.total, nil
}

type DownloadOptions struct {
	GetFileOptions
}

// DownloadMedia writes a file to w. media is a file id string, a *FileID,
// a photo, a document or message media holding one of them. It returns
// the number of bytes written.
func (c *Client) DownloadMedia(ctx context.Context, media any, w io.Writer, opts DownloadOptions) (int64, error) {
	var file *FileID
	var err error
	switch m := media.(type) {
	case string:
		file, err = DecodeFileID(m)
	case *FileID:
		file = m
	default:
		file, err = FileIDOf(media)
		if opts.Size == 0 {
			opts.Size = FileSize(media)
		}
	}
	if err != nil {
		return 0, err
	}

	var written int64
	err = c.GetFile(ctx, file, opts.GetFileOptions, func(chunk []byte) error {
		n, err := w.Write(chunk)
		written += int64(n)
		return errors.Wrap(err, "writing chunk")
	})
	return written, err
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
