package dto

import (
	"io"
	"mime/multipart"
)

// FileAttachment is a pending upload, decoupled from the HTTP layer so the
// sync engines stay testable without multipart plumbing.
type FileAttachment struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// AttachmentFromFileHeader opens a multipart file for the sync engines.
// The returned closer must be closed after the protocol completes.
func AttachmentFromFileHeader(fh *multipart.FileHeader) (*FileAttachment, io.Closer, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &FileAttachment{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      file,
	}, file, nil
}
