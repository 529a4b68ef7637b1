package upload

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/openclaw/portfolio-server-go/internal/errors"
)

// File is an uploaded file as declared by the client.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Submission carries the image inputs of a project form.
type Submission struct {
	File *File
	URL  string
}

// Resolution is the authoritative image reference picked for a submission.
type Resolution struct {
	Image string
	// Stored is true when Image refers to a file written by this resolution.
	Stored bool
	// Kept is true when neither a file nor a URL was submitted and prior stands.
	Kept bool
}

type Resolver struct {
	storage Storage
	maxSize int64
	now     func() time.Time
}

func NewResolver(storage Storage, maxSize int64) *Resolver {
	return &Resolver{
		storage: storage,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (r *Resolver) Storage() Storage {
	return r.storage
}

// Validate checks declared type and size; it never touches storage.
func (r *Resolver) Validate(f *File) error {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return apperrors.UnsupportedFileType(f.ContentType)
	}
	if f.Size > r.maxSize {
		return apperrors.FileTooLarge(r.maxSize)
	}
	return nil
}

// Resolve applies file > URL > prior precedence. prior is empty on creation, in which
// case a submission without file and URL fails with MissingImage.
func (r *Resolver) Resolve(ctx context.Context, sub Submission, prior string) (Resolution, error) {
	if sub.File != nil {
		if err := r.Validate(sub.File); err != nil {
			return Resolution{}, err
		}

		// Guard against a client that under-declares Size.
		content := io.LimitReader(sub.File.Content, r.maxSize+1)
		counter := &countingReader{r: content}

		ref, err := r.storage.Save(ctx, UniqueName(r.now(), sub.File.Filename), sub.File.ContentType, counter)
		if err != nil {
			return Resolution{}, apperrors.StoreUnavailable(err)
		}
		if counter.n > r.maxSize {
			if err := r.storage.Delete(ctx, ref); err != nil {
				log.Warn().Err(err).Str("image", ref).Msg("failed to remove oversized upload")
			}
			return Resolution{}, apperrors.FileTooLarge(r.maxSize)
		}
		return Resolution{Image: ref, Stored: true}, nil
	}

	if url := strings.TrimSpace(sub.URL); url != "" {
		return Resolution{Image: url}, nil
	}

	if prior != "" {
		return Resolution{Image: prior, Kept: true}, nil
	}

	return Resolution{}, apperrors.MissingImage()
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
