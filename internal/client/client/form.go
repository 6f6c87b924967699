package client

import (
	"io"
	"mime/multipart"
)

type formPart struct {
	name     string
	value    string
	fileName string
	file     io.Reader
}

// Form is an ordered multipart/form-data body. File parts are streamed when
// the request is sent, not buffered.
type Form struct {
	parts []formPart
}

// Add appends a plain field.
func (f *Form) Add(name, value string) {
	f.parts = append(f.parts, formPart{name: name, value: value})
}

// AddFile appends a file field read from r.
func (f *Form) AddFile(name, fileName string, r io.Reader) {
	f.parts = append(f.parts, formPart{name: name, fileName: fileName, file: r})
}

// Names returns field names in insertion order.
func (f *Form) Names() []string {
	names := make([]string, len(f.parts))
	for i, p := range f.parts {
		names[i] = p.name
	}
	return names
}

// pipe starts writing the form into a pipe and returns the read side and
// the content type. Write errors surface on the reader.
func (f *Form) pipe() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(f.write(mw))
	}()

	return pr, mw.FormDataContentType()
}

func (f *Form) write(mw *multipart.Writer) error {
	for _, p := range f.parts {
		if p.file == nil {
			if err := mw.WriteField(p.name, p.value); err != nil {
				return err
			}
			continue
		}

		w, err := mw.CreateFormFile(p.name, p.fileName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, p.file); err != nil {
			return err
		}
	}
	return mw.Close()
}
