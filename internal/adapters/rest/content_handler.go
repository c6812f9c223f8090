package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mchugh/liveblog/internal/content/application"
	"github.com/mchugh/liveblog/internal/content/domain"
)

// maxUploadSize bounds multipart request bodies.
const maxUploadSize = 10 << 20 // 10 MiB

// itemResponse is the wire representation of a content item.
type itemResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Category  string    `json:"category,omitempty"`
	AssetURL  *string   `json:"asset_url"`
	AssetName *string   `json:"asset_name"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func domainItemToAPI(item *domain.ContentItem) itemResponse {
	resp := itemResponse{
		ID:        item.ID,
		Title:     item.Title,
		Body:      item.Body,
		Author:    item.Author,
		Category:  item.Category,
		Views:     item.Views,
		Likes:     item.Likes,
		Published: item.Published,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Asset != nil {
		url := item.Asset.URL
		name := item.Asset.Name
		resp.AssetURL = &url
		resp.AssetName = &name
	}
	return resp
}

// itemRequest carries create/update fields from a JSON body. Published is a
// pointer so an absent field is distinguishable from an explicit false.
type itemRequest struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	ClearCategory bool   `json:"clear_category,omitempty"`
	Published     *bool  `json:"published,omitempty"`
}

// ContentHandler handles HTTP requests for content items
type ContentHandler struct {
	*BaseHandler
	service *application.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(base *BaseHandler, service *application.ContentService) *ContentHandler {
	return &ContentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// ListItems returns all items, most recent first
func (h *ContentHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	response := make([]itemResponse, len(items))
	for i, item := range items {
		response[i] = domainItemToAPI(item)
	}
	h.WriteJSONResponse(w, r, response, http.StatusOK)
}

// GetItem returns a single item by ID
func (h *ContentHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainItemToAPI(item), http.StatusOK)
}

// CreateItem creates a new item. The body may be JSON, or multipart form
// data with an optional "image" file part.
func (h *ContentHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	fields, assetData, assetName, ok := h.parseItemBody(w, r)
	if !ok {
		return
	}

	item, err := h.service.CreateItem(r.Context(), application.CreateItemParams{
		Title:     fields.Title,
		Body:      fields.Body,
		Author:    fields.Author,
		Category:  fields.Category,
		AssetData: assetData,
		AssetName: assetName,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainItemToAPI(item), http.StatusCreated)
}

// UpdateItem merges the supplied fields over an existing item
func (h *ContentHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	fields, assetData, assetName, ok := h.parseItemBody(w, r)
	if !ok {
		return
	}

	item, err := h.service.UpdateItem(r.Context(), id, application.UpdateItemParams{
		Title:         fields.Title,
		Body:          fields.Body,
		Author:        fields.Author,
		Category:      fields.Category,
		ClearCategory: fields.ClearCategory,
		Published:     fields.Published,
		AssetData:     assetData,
		AssetName:     assetName,
	})
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainItemToAPI(item), http.StatusOK)
}

// DeleteItem removes an item
func (h *ContentHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LikeItem increments the like counter and returns the updated item
func (h *ContentHandler) LikeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.service.LikeItem(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, domainItemToAPI(item), http.StatusOK)
}

// RecordView increments the view counter. An unknown id is a silent no-op.
func (h *ContentHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.service.IncrementViews(r.Context(), id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetStats returns aggregate statistics derived from the item list
func (h *ContentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, stats, http.StatusOK)
}

// itemID extracts and validates the {id} route parameter.
func (h *ContentHandler) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteJSONError(w, r, ErrorCodeValidationError, "invalid item id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// parseItemBody decodes either a JSON body or a multipart form with an
// optional image file.
func (h *ContentHandler) parseItemBody(w http.ResponseWriter, r *http.Request) (itemRequest, []byte, string, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.WriteJSONError(w, r, ErrorCodeValidationError, "invalid multipart body", http.StatusBadRequest)
			return itemRequest{}, nil, "", false
		}

		fields := itemRequest{
			Title:         r.FormValue("title"),
			Body:          r.FormValue("body"),
			Author:        r.FormValue("author"),
			Category:      r.FormValue("category"),
			ClearCategory: r.FormValue("clear_category") == "true",
		}
		if v := r.FormValue("published"); v != "" {
			published := v == "true"
			fields.Published = &published
		}

		// A missing image part is fine, the asset is optional.
		file, header, err := r.FormFile("image")
		if err != nil {
			return fields, nil, "", true
		}
		defer file.Close()

		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadSize))
		if readErr != nil {
			h.WriteJSONError(w, r, ErrorCodeValidationError, "failed to read uploaded image", http.StatusBadRequest)
			return itemRequest{}, nil, "", false
		}
		return fields, data, header.Filename, true
	}

	var fields itemRequest
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.WriteJSONError(w, r, ErrorCodeValidationError, "invalid request body", http.StatusBadRequest)
		return itemRequest{}, nil, "", false
	}
	return fields, nil, "", true
}
