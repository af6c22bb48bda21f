package gateway

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"trocagames/internal/domain/entity"
	"trocagames/pkg/errors"
)

type form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

func newForm() *form {
	f := &form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.writer.WriteField(name, value)
}

func (f *form) optionalString(name string, value *string) {
	if value != nil && *value != "" {
		f.field(name, *value)
	}
}

func (f *form) optionalFloat(name string, value *float64) {
	if value != nil {
		f.field(name, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}

func (f *form) optionalBool(name string, value *bool) {
	if value != nil {
		f.field(name, strconv.FormatBool(*value))
	}
}

// file attaches an image. The content type is sniffed, not trusted from the name.
func (f *form) file(name string, upload *entity.Upload) {
	if f.err != nil || upload == nil || len(upload.Content) == 0 {
		return
	}

	mtype := mimetype.Detect(upload.Content)
	if !strings.HasPrefix(mtype.String(), "image/") {
		f.err = errors.Validation(fmt.Sprintf("A foto deve ser uma imagem (recebido %s)", mtype.String()), nil)
		return
	}

	filename := upload.Filename
	if filename == "" {
		filename = "foto" + mtype.Extension()
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, name, escapeQuotes(filename)))
	header.Set("Content-Type", mtype.String())

	part, err := f.writer.CreatePart(header)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(upload.Content)
}

// finish closes the writer and returns the body with its content type.
func (f *form) finish() (*bytes.Buffer, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.writer.Close(); err != nil {
		return nil, "", err
	}
	return &f.buf, f.writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func formError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.Internal("Falha ao montar o formulário", err)
}
