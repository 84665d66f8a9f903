package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/vedran77/itemvault/internal/service"
	"github.com/vedran77/itemvault/pkg/validator"
)

var (
	errInvalidBody      = errors.New("invalid request body")
	errUploadTooLarge   = errors.New("upload too large")
	errUnsupportedMedia = errors.New("unsupported content type")
	errBodyTooLarge     = errors.New("request body too large")
)

// multipart parts above this size spill to temp files
const multipartMemory = 8 << 20

// maxBodyBytes caps JSON and urlencoded bodies.
const maxBodyBytes = 1 << 20

func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}

// decodeJSON treats an empty body as an empty object.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return bodyError(err)
	}
	return nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errInvalidBody
}

// decodeCredentials accepts a JSON body or a urlencoded/multipart form.
// The username comes back trimmed; the password is returned as sent.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (username, password string, err error) {
	username, password, err = readCredentials(w, r)
	return strings.TrimSpace(username), password, err
}

func readCredentials(w http.ResponseWriter, r *http.Request) (string, string, error) {
	switch mediaType(r) {
	case "application/json", "":
		var input struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(w, r, &input); err != nil {
			return "", "", err
		}
		return input.Username, input.Password, nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return "", "", bodyError(err)
		}
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", "", bodyError(err)
		}
	default:
		return "", "", errUnsupportedMedia
	}
	return r.PostFormValue("username"), r.PostFormValue("password"), nil
}

// itemRequest is the decoded body of an item create or update. Nil fields
// were not present in the request.
type itemRequest struct {
	Name  *string
	Age   *int
	City  *string
	Image *service.ImageUpload

	file multipart.File
	form *multipart.Form
}

// Close releases the uploaded file and any temp files of the form.
func (req *itemRequest) Close() {
	if req.file != nil {
		req.file.Close()
	}
	if req.form != nil {
		req.form.RemoveAll()
	}
}

func decodeItemRequest(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) (*itemRequest, error) {
	switch mediaType(r) {
	case "application/json", "":
		var body struct {
			Name *string `json:"name"`
			Age  *int    `json:"age"`
			City *string `json:"city"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			return nil, err
		}
		return &itemRequest{Name: body.Name, Age: body.Age, City: body.City}, nil
	case "multipart/form-data":
		return decodeItemForm(w, r, maxUploadBytes)
	default:
		return nil, errUnsupportedMedia
	}
}

func decodeItemForm(w http.ResponseWriter, r *http.Request, maxUploadBytes int64) (*itemRequest, error) {
	// room for the text fields and multipart framing on top of the image
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errUploadTooLarge
		}
		return nil, errInvalidBody
	}

	req := &itemRequest{form: r.MultipartForm}
	values := r.MultipartForm.Value
	if v, ok := formValue(values, "name"); ok {
		req.Name = &v
	}
	if v, ok := formValue(values, "city"); ok {
		req.City = &v
	}
	if v, ok := formValue(values, "age"); ok && strings.TrimSpace(v) != "" {
		age, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			req.Close()
			errs := make(validator.ValidationErrors)
			errs.Add("age", "Age must be a whole number")
			return nil, errs
		}
		req.Age = &age
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return req, nil
	case err != nil:
		req.Close()
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	req.file = file

	if header.Size > maxUploadBytes {
		req.Close()
		return nil, errUploadTooLarge
	}
	if header.Filename == "" {
		return req, nil
	}

	req.Image = &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return req, nil
}

func formValue(values map[string][]string, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
