// Copyright (c) 2024 RoseLoverX

package telegram

import (
	"context"
	"crypto/md5"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/amarnathcjd/mtproto/internal/utils"
)

const (
	uploadPartSize   = 512 * 1024
	bigFileThreshold = 10 * 1024 * 1024
	bigFileWorkers   = 4
)

type UploadOptions struct {
	// Name defaults to the base name of the path for UploadFile.
	Name     string
	Progress Progress
	// Workers is the number of parts in flight. Small files are always
	// sent one part at a time.
	Workers int
}

// UploadFile uploads the file at path, see SaveFile.
func (c *Client) UploadFile(ctx context.Context, path string, opts UploadOptions) (InputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "reading file info")
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(path)
	}
	return c.SaveFile(ctx, f, info.Size(), opts)
}

// SaveFile sends size bytes from r in 512 KiB parts and returns the
// InputFile referencing them. Files above 10 MiB are sent as big file parts
// in parallel; smaller ones carry their MD5 checksum.
func (c *Client) SaveFile(ctx context.Context, r io.Reader, size int64, opts UploadOptions) (_ InputFile, err error) {
	if size <= 0 {
		return nil, errors.New("cannot upload an empty file")
	}
	if err := c.transmissions.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.transmissions.Release(1)

	big := size > bigFileThreshold
	ctx, span := c.tracer.Start(ctx, "telegram.save_file", trace.WithAttributes(
		attribute.Int64("telegram.size", size),
		attribute.Bool("telegram.big", big),
	))
	defer func() {
		if err != nil && !errors.Is(err, ErrStopTransmission) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	u := &upload{
		c:        c,
		fileID:   utils.RandomInt64(),
		parts:    int32((size + uploadPartSize - 1) / uploadPartSize),
		size:     size,
		big:      big,
		progress: opts.Progress,
	}
	workers := 1
	if big {
		workers = bigFileWorkers
		if opts.Workers > 0 {
			workers = opts.Workers
		}
	} else {
		u.md5 = md5.New()
	}

	c.Log.WithPrefix("media").Debug("uploading %s: %d bytes in %d parts", opts.Name, size, u.parts)
	if err := u.run(ctx, r, workers); err != nil {
		if errors.Is(err, ErrStopTransmission) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "uploading %s", opts.Name)
	}

	if big {
		return &InputFileBig{ID: u.fileID, Parts: u.parts, Name: opts.Name}, nil
	}
	return &InputFileObj{
		ID:          u.fileID,
		Parts:       u.parts,
		Name:        opts.Name,
		Md5Checksum: fmt.Sprintf("%x", u.md5.Sum(nil)),
	}, nil
}

// upload is the state of one SaveFile call.
type upload struct {
	c      *Client
	fileID int64
	parts  int32
	size   int64
	big    bool
	md5    hash.Hash

	mu       sync.Mutex
	done     int64
	progress Progress
}

// run reads parts sequentially and sends them with up to workers
// requests in flight.
func (u *upload) run(ctx context.Context, r io.Reader, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	remaining := u.size
	for part := int32(0); part < u.parts; part++ {
		buf := make([]byte, min(uploadPartSize, remaining))
		if _, err := io.ReadFull(r, buf); err != nil {
			err = errors.Wrapf(err, "reading part %d", part)
			// a part that already failed is reported over the read error
			if sendErr := g.Wait(); sendErr != nil {
				u.c.Log.Debug("upload stopped by a failed part, dropping: %v", err)
				return sendErr
			}
			return err
		}
		remaining -= int64(len(buf))
		if u.md5 != nil {
			u.md5.Write(buf)
		}

		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return u.send(ctx, part, buf)
		})
	}
	return g.Wait()
}

func (u *upload) send(ctx context.Context, part int32, data []byte) error {
	var err error
	if u.big {
		_, err = UploadSaveBigFilePart(ctx, u.c, u.fileID, part, u.parts, data)
	} else {
		_, err = UploadSaveFilePart(ctx, u.c, u.fileID, part, data)
	}
	if err != nil {
		return errors.Wrapf(err, "part %d", part)
	}
	u.c.metrics.Uploaded(len(data))

	if u.progress == nil {
		return nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.done += int64(len(data))
	return u.progress(u.done, u.size)
}
