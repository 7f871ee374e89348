package product

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Handler exposes the product HTTP endpoints.
type Handler struct {
	service Service
	baseURL string
}

// NewHandler creates a product handler. baseURL is the public root used to
// build image and pagination URLs.
func NewHandler(service Service, baseURL string) *Handler {
	return &Handler{service: service, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// RegisterRoutes mounts the product API. guard wraps every route, normally
// with the bearer-token middleware.
func (h *Handler) RegisterRoutes(r *chi.Mux, guard func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(guard)
		r.Get("/", h.list)
		r.Get("/latest", h.latest)
		r.Get("/stats", h.stats)
		r.Post("/", h.create)
		r.Get("/{id}", h.show)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.destroy)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	result, err := h.service.GetAllProducts(r.Context(), perPage, page)
	if err != nil {
		log.Error().Err(err).Str("component", "listProducts").Msg("")
		respond(w, http.StatusInternalServerError, map[string]string{
			"message": "Error loading products: " + err.Error(),
		})
		return
	}

	respond(w, http.StatusOK, NewCollection(result, h.baseURL))
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetLatestProducts(r.Context(), 0)
	if err != nil {
		log.Error().Err(err).Str("component", "latestProducts").Msg("")
		respond(w, http.StatusInternalServerError, map[string]string{
			"message": "Error loading latest products: " + err.Error(),
		})
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"data": NewResourceList(products, h.baseURL),
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetProductStats(r.Context())
	if err != nil {
		log.Error().Err(err).Str("component", "productStats").Msg("")
		respond(w, http.StatusInternalServerError, map[string]string{
			"message": "Error loading statistics: " + err.Error(),
		})
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{"data": NewStatsResource(stats)})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("component", "showProduct").Msg("")
		respond(w, http.StatusInternalServerError, map[string]string{
			"message": "Error loading product: " + err.Error(),
		})
		return
	}
	if p == nil {
		notFound(w)
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{"data": NewResource(p, h.baseURL)})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.parseInput(w, r)
	if !ok {
		return
	}

	p, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		if !respondValidation(w, err) {
			log.Error().Err(err).Str("component", "createProduct").Msg("")
			respond(w, http.StatusInternalServerError, map[string]string{
				"message": "Error creating product: " + err.Error(),
			})
		}
		return
	}

	respond(w, http.StatusCreated, map[string]interface{}{
		"message": "Product successfully created",
		"data":    NewResource(p, h.baseURL),
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	in, ok := h.parseInput(w, r)
	if !ok {
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), id, in)
	if err != nil {
		if !respondValidation(w, err) {
			log.Error().Err(err).Str("component", "updateProduct").Msg("")
			respond(w, http.StatusInternalServerError, map[string]string{
				"message": "Error updating product: " + err.Error(),
			})
		}
		return
	}
	if p == nil {
		notFound(w)
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"message": "Product successfully updated",
		"data":    NewResource(p, h.baseURL),
	})
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteProduct(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("component", "deleteProduct").Msg("")
		respond(w, http.StatusInternalServerError, map[string]string{
			"message": "Error deleting product: " + err.Error(),
		})
		return
	}
	if !deleted {
		notFound(w)
		return
	}

	respond(w, http.StatusOK, map[string]string{"message": "Product successfully deleted"})
}

// productID parses the {id} route parameter. A non-numeric id can never
// match a row, so it gets the same 404 as a missing one.
func (h *Handler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		notFound(w)
		return 0, false
	}
	return id, true
}

// parseInput reads a create/update payload from a JSON body or a multipart
// form. On a malformed payload it writes the 422 response itself.
func (h *Handler) parseInput(w http.ResponseWriter, r *http.Request) (Input, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return h.parseMultipart(w, r)
	}
	return h.parseJSON(w, r)
}

func (h *Handler) parseJSON(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var body struct {
		Name     *string          `json:"name"`
		SKU      *string          `json:"sku"`
		Price    *decimal.Decimal `json:"price"`
		Quantity *int             `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fieldErrors := map[string][]string{}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			switch typeErr.Field {
			case "price":
				fieldErrors["price"] = []string{msgPriceNumber}
			case "quantity":
				fieldErrors["quantity"] = []string{msgQuantityInteger}
			}
		}
		unprocessable(w, fieldErrors)
		return Input{}, false
	}
	return Input{Name: body.Name, SKU: body.SKU, Price: body.Price, Quantity: body.Quantity}, true
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (Input, bool) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		unprocessable(w, nil)
		return Input{}, false
	}

	in := Input{}
	fieldErrors := map[string][]string{}
	value := func(field string) (string, bool) {
		vals, ok := r.MultipartForm.Value[field]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}

	if v, ok := value("name"); ok {
		in.Name = &v
	}
	if v, ok := value("sku"); ok {
		in.SKU = &v
	}
	if v, ok := value("price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			fieldErrors["price"] = []string{msgPriceNumber}
		} else {
			in.Price = &price
		}
	}
	if v, ok := value("quantity"); ok {
		quantity, err := strconv.Atoi(v)
		if err != nil {
			fieldErrors["quantity"] = []string{msgQuantityInteger}
		} else {
			in.Quantity = &quantity
		}
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		in.Image = &ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	} else if err != http.ErrMissingFile {
		fieldErrors["image"] = []string{msgImageNotImage}
	}

	if len(fieldErrors) > 0 {
		unprocessable(w, fieldErrors)
		return Input{}, false
	}
	return in, true
}

// respondValidation writes a 422 when err is a ValidationError and reports
// whether it did.
func respondValidation(w http.ResponseWriter, err error) bool {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	unprocessable(w, ve.Errors)
	return true
}

func unprocessable(w http.ResponseWriter, fieldErrors map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "The given data was invalid.",
		"errors":  fieldErrors,
	})
}

func notFound(w http.ResponseWriter) {
	respond(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
