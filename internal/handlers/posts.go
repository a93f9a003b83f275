package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jeremyjsx/stories/internal/posts"
)

const (
	imageFormField = "image"
	maxUploadBytes = 10 << 20
)

const (
	msgRequiredFields   = "Title, description, and story are required fields."
	msgImageRequired    = "Image is required."
	msgUnexpectedField  = "Unexpected file field. Ensure the key for the file is 'image'."
	msgUnsupportedImage = "Only jpg, jpeg, and png images are allowed."
	msgPostNotFound     = "Post not found"
	msgBadForm          = "Could not parse form data."
	msgCreateFailed     = "Failed to create the post. Please try again."
	msgUpdateFailed     = "Failed to update the post. Please try again."
	msgDeleteFailed     = "Failed to delete the post. Please try again."
	msgUnexpected       = "An unexpected error occurred."
)

var errUnexpectedFileField = errors.New("unexpected file field")

type PostsHandler struct {
	svc    *posts.Service
	logger *slog.Logger
}

func NewPostsHandler(svc *posts.Service, logger *slog.Logger) *PostsHandler {
	return &PostsHandler{
		svc:    svc,
		logger: logger,
	}
}

func (h *PostsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, fh, err := parsePostForm(r)
		if err != nil {
			if errors.Is(err, errUnexpectedFileField) {
				writeError(w, http.StatusBadRequest, msgUnexpectedField)
				return
			}
			writeError(w, http.StatusBadRequest, msgBadForm)
			return
		}

		image, closeImage, err := openImage(fh)
		if err != nil {
			h.logger.Error("open uploaded file failed", "error", err)
			writeError(w, http.StatusInternalServerError, msgCreateFailed)
			return
		}
		defer closeImage()

		post, err := h.svc.CreatePost(r.Context(), in, image)
		if err != nil {
			var verr *posts.ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, msgRequiredFields)
			case errors.Is(err, posts.ErrImageRequired):
				writeError(w, http.StatusBadRequest, msgImageRequired)
			case errors.Is(err, posts.ErrUnsupportedImage):
				writeError(w, http.StatusBadRequest, msgUnsupportedImage)
			default:
				h.logger.Error("create post failed", "error", err)
				writeError(w, http.StatusInternalServerError, msgCreateFailed)
			}
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}

func (h *PostsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.svc.ListPosts(r.Context())
		if err != nil {
			h.logger.Error("list posts failed", "error", err)
			writeError(w, http.StatusInternalServerError, msgUnexpected)
			return
		}
		if list == nil {
			list = []*posts.Post{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func (h *PostsHandler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			// A malformed id cannot name any post.
			writeError(w, http.StatusNotFound, msgPostNotFound)
			return
		}

		post, err := h.svc.GetPost(r.Context(), id)
		if err != nil {
			if errors.Is(err, posts.ErrNotFound) {
				writeError(w, http.StatusNotFound, msgPostNotFound)
				return
			}
			h.logger.Error("get post failed", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, msgUnexpected)
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, msgPostNotFound)
			return
		}

		in, fh, err := parsePostForm(r)
		if err != nil {
			if errors.Is(err, errUnexpectedFileField) {
				writeError(w, http.StatusBadRequest, msgUnexpectedField)
				return
			}
			writeError(w, http.StatusBadRequest, msgBadForm)
			return
		}

		image, closeImage, err := openImage(fh)
		if err != nil {
			h.logger.Error("open uploaded file failed", "error", err)
			writeError(w, http.StatusInternalServerError, msgUpdateFailed)
			return
		}
		defer closeImage()

		post, err := h.svc.UpdatePost(r.Context(), id, in, image)
		if err != nil {
			var verr *posts.ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusUnprocessableEntity, msgRequiredFields)
			case errors.Is(err, posts.ErrNotFound):
				writeError(w, http.StatusNotFound, msgPostNotFound)
			case errors.Is(err, posts.ErrUnsupportedImage):
				writeError(w, http.StatusBadRequest, msgUnsupportedImage)
			default:
				h.logger.Error("update post failed", "id", id, "error", err)
				writeError(w, http.StatusInternalServerError, msgUpdateFailed)
			}
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

func (h *PostsHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, msgPostNotFound)
			return
		}

		if err := h.svc.DeletePost(r.Context(), id); err != nil {
			if errors.Is(err, posts.ErrNotFound) {
				writeError(w, http.StatusNotFound, msgPostNotFound)
				return
			}
			h.logger.Error("delete post failed", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, msgDeleteFailed)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
	}
}

// parsePostForm reads title/description/story from a multipart or urlencoded
// body and returns the image file header when one was uploaded under the
// expected field. Any other file field is rejected.
func parsePostForm(r *http.Request) (posts.PostInput, *multipart.FileHeader, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return posts.PostInput{}, nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return posts.PostInput{}, nil, err
		}
	}

	in := posts.PostInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Story:       r.FormValue("story"),
	}

	if r.MultipartForm == nil {
		return in, nil, nil
	}

	for field := range r.MultipartForm.File {
		if field != imageFormField {
			return posts.PostInput{}, nil, errUnexpectedFileField
		}
	}

	files := r.MultipartForm.File[imageFormField]
	if len(files) == 0 {
		return in, nil, nil
	}

	return in, files[0], nil
}

func openImage(fh *multipart.FileHeader) (*posts.ImageUpload, func(), error) {
	if fh == nil {
		return nil, func() {}, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}

	image := &posts.ImageUpload{
		Filename: fh.Filename,
		Body:     f,
	}

	return image, func() { _ = f.Close() }, nil
}
