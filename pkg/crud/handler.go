package crud

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/crudify/pkg/handlers"
	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/JaimeStill/crudify/pkg/pagination"
	"github.com/JaimeStill/crudify/pkg/routes"
)

// CreatedMessage confirms a POST of an array body.
const CreatedMessage = "All documents created successfully"

// Handler provides the generated HTTP handlers for one model.
type Handler struct {
	cfg       Config
	component string
	schemas   *Schemas
	input     *model.Validator
	spec      spec
	logger    *slog.Logger
}

// NewHandler derives schemas and operation docs for cfg.
func NewHandler(cfg Config, logger *slog.Logger) (*Handler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	component := ComponentName(cfg.Model.Name())
	schemas := DeriveSchemas(cfg.Schema)

	h := &Handler{
		cfg:       cfg,
		component: component,
		schemas:   schemas,
		spec:      newSpec(component, schemas),
		logger:    logger,
	}

	if schemas != nil {
		input, err := model.NewValidator(cfg.Model.Name(), schemas.Create)
		if err != nil {
			return nil, err
		}
		h.input = input
	}

	return h, nil
}

// Routes returns the route group for the generated endpoints.
func (h *Handler) Routes() routes.Group {
	tags := h.cfg.Tags
	if len(tags) == 0 {
		tags = []string{h.component}
	}

	return routes.Group{
		Prefix:      h.cfg.URL,
		Tags:        tags,
		Description: h.component + " documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: h.spec.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: h.spec.Find},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: h.spec.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: h.spec.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: h.spec.Delete},
		},
	}
}

// Schemas returns the OpenAPI component schemas for the model, or nil without a schema.
func (h *Handler) Schemas() map[string]*openapi.Schema {
	if h.schemas == nil {
		return nil
	}
	return map[string]*openapi.Schema{
		h.component:           h.schemas.Single,
		h.component + "Input": h.schemas.Create,
		h.component + "Page":  page(h.schemas.List),
	}
}

// Derived returns the schema variants computed at construction, or nil without a schema.
func (h *Handler) Derived() *Schemas {
	return h.schemas
}

// List handles GET {url} to retrieve a page of documents matching the filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := ParseFilters(q.Get("filters"))
	if err != nil {
		h.respondError(w, malformed(err))
		return
	}

	opts, err := pagination.ParseOptions(q.Get("pagination"))
	if err != nil {
		h.respondError(w, malformed(err))
		return
	}

	result, err := h.cfg.Model.Paginate(r.Context(), filter, opts)
	if err != nil {
		h.respondError(w, classify("", err))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find handles GET {url}/{id} to retrieve a single document.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := h.cfg.Model.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, classify(id, err))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Create handles POST {url}. An object body creates one document and an array body
// creates one per element. Every element is validated before anything is written.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := h.decode(w, r)
	if err != nil {
		h.respondError(w, invalid(ErrInvalidBody))
		return
	}

	var docs []model.Document
	single := false

	switch v := body.(type) {
	case map[string]any:
		docs = []model.Document{v}
		single = true
	case []any:
		docs = make([]model.Document, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				h.respondError(w, invalid(ErrInvalidBody))
				return
			}
			docs = append(docs, obj)
		}
	default:
		h.respondError(w, invalid(ErrInvalidBody))
		return
	}

	for _, doc := range docs {
		if err := h.validate(r, doc); err != nil {
			h.respondError(w, err)
			return
		}
	}

	if single {
		created, err := h.cfg.Model.Create(r.Context(), docs[0])
		if err != nil {
			h.respondError(w, classify("", err))
			return
		}
		handlers.RespondJSON(w, http.StatusCreated, created)
		return
	}

	if _, err := h.cfg.Model.InsertMany(r.Context(), docs); err != nil {
		h.respondError(w, classify("", err))
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, map[string]string{"message": CreatedMessage})
}

// Update handles PUT {url}/{id} to apply a partial update with validation of the patched fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := h.decode(w, r)
	if err != nil {
		h.respondError(w, invalid(ErrInvalidBody))
		return
	}
	patch, ok := body.(map[string]any)
	if !ok {
		h.respondError(w, invalid(ErrInvalidBody))
		return
	}

	doc, err := h.cfg.Model.FindOneAndUpdate(r.Context(), id, patch, model.UpdateOptions{
		ReturnUpdated: true,
		RunValidators: true,
	})
	if err != nil {
		h.respondError(w, classifyUpdate(id, err))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE {url}/{id} and responds with the removed document.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := h.cfg.Model.FindOneAndDelete(r.Context(), id)
	if err != nil {
		h.respondError(w, classify(id, err))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (any, error) {
	if h.cfg.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodySize)
	}

	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Debug("decode request body", "error", err)
		return nil, err
	}
	return body, nil
}

func (h *Handler) validate(r *http.Request, doc model.Document) *Error {
	if h.input != nil {
		if err := h.input.Validate(doc); err != nil {
			return invalid(err)
		}
	}
	if err := h.cfg.Model.Validate(r.Context(), doc); err != nil {
		return classify("", err)
	}
	return nil
}

func (h *Handler) respondError(w http.ResponseWriter, err *Error) {
	if err.StatusBody() {
		handlers.RespondStatus(w, h.logger, err.Kind.Status(), err.Error())
		return
	}
	handlers.RespondError(w, h.logger, err.Kind.Status(), err)
}
