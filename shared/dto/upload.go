package dto

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"studio/shared/constant"
	"studio/shared/failure"
)

// UploadImageRequest is the multipart `file` part of a catalog image upload.
type UploadImageRequest struct {
	Image     *multipart.FileHeader `json:"image" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg image/gif,maxfilesize=2"`
	ImageFile multipart.File        `json:"-"`
}

// FromRequest parses the multipart form of r. The caller closes ImageFile when it is set.
func (u *UploadImageRequest) FromRequest(r *http.Request) error {
	header, file, err := FormImage(r)
	if err != nil {
		return err
	}

	u.Image = header
	u.ImageFile = file

	return nil
}

// Close releases the uploaded part, if any.
func (u *UploadImageRequest) Close() {
	if u.ImageFile != nil {
		_ = u.ImageFile.Close()
	}
}

// FormImage reads the `file` part of a multipart request. A form without the part yields nils.
func FormImage(r *http.Request) (*multipart.FileHeader, multipart.File, error) {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return nil, nil, failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err)) //nolint:wrapcheck
	}

	file, header, err := r.FormFile(constant.FormFile)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}

	if err != nil {
		return nil, nil, failure.BadRequest(fmt.Errorf("failed to read form file: %w", err)) //nolint:wrapcheck
	}

	return header, file, nil
}
