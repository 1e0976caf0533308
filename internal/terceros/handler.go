package terceros

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/bd2-crud/terceros/internal/shared"
	"github.com/bd2-crud/terceros/internal/view"
)

// Operations is the behaviour the handler needs from the service layer.
type Operations interface {
	List(ctx context.Context) ([]ThirdParty, error)
	Get(ctx context.Context, id *int64) (*ThirdParty, error)
	Save(ctx context.Context, in SaveInput) (SaveResult, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// StoreErrorRecorder counts failed store operations by name.
type StoreErrorRecorder interface {
	RecordStoreError(op string)
}

// Handler serves the record list and form pages.
type Handler struct {
	logger    *slog.Logger
	service   Operations
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
	locale    language.Tag
	recorder  StoreErrorRecorder
}

// NewHandler constructs a Handler. locale is used for notices when the
// request does not ask for a supported language. recorder may be nil.
func NewHandler(logger *slog.Logger, service Operations, templates *view.Engine, csrf *shared.CSRFManager, locale language.Tag, recorder StoreErrorRecorder) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		validator: newFormValidator(),
		locale:    locale,
		recorder:  recorder,
	}
}

// List renders every record. A store failure renders an empty table with a
// danger notice instead of an error page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list terceros failed", slog.Any("error", err))
		h.recordStoreError("list", err)
		h.addFlash(r, shared.FlashDanger, noticePrinter(r, h.locale).Sprintf(noticeLoadFailed, err.Error()))
		records = []ThirdParty{}
	}

	h.render(w, r, "pages/terceros_list.html", "Terceros", map[string]any{
		"Terceros": records,
	})
}

// Form renders the create/edit form. An unknown or absent id renders a blank
// form.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	var id *int64
	if raw := chi.URLParam(r, "id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if parsed > 0 {
			id = &parsed
		}
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("get tercero failed", slog.Any("error", err), slog.String("id", chi.URLParam(r, "id")))
		h.recordStoreError("get", err)
		h.addFlash(r, shared.FlashDanger, noticePrinter(r, h.locale).Sprintf(noticeLoadFailed, err.Error()))
		record = nil
	}

	form := ThirdParty{}
	title := "Nuevo tercero"
	if record != nil {
		form = *record
		title = "Editar tercero"
	}
	h.render(w, r, "pages/terceros_form.html", title, map[string]any{
		"Tercero": form,
	})
}

// Save inserts or updates a record and redirects to the list with a notice.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	printer := noticePrinter(r, h.locale)

	in, err := decodeSaveForm(r, h.validator)
	if err != nil {
		h.logger.Warn("save tercero rejected", slog.Any("error", err))
		h.redirectWithFlash(w, r, "/", shared.FlashDanger, printer.Sprintf(noticeSaveFailed, err.Error()))
		return
	}

	result, err := h.service.Save(r.Context(), in)
	if err != nil {
		h.logger.Error("save tercero failed", slog.Any("error", err))
		h.recordStoreError("save", err)
		h.redirectWithFlash(w, r, "/", shared.FlashDanger, printer.Sprintf(noticeSaveFailed, err.Error()))
		return
	}

	h.logger.Info("tercero saved", slog.Int64("id", result.ID), slog.Bool("created", result.Created), slog.Int64("affected", result.Affected))
	h.redirectWithFlash(w, r, "/", shared.FlashSuccess, printer.Sprintf(noticeSaved))
}

// Delete removes a record and redirects to the list with a notice.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	printer := noticePrinter(r, h.locale)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	affected, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete tercero failed", slog.Any("error", err), slog.Int64("id", id))
		h.recordStoreError("delete", err)
		h.redirectWithFlash(w, r, "/", shared.FlashDanger, printer.Sprintf(noticeDeleteFailed, err.Error()))
		return
	}

	h.logger.Info("tercero deleted", slog.Int64("id", id), slog.Int64("affected", affected))
	h.redirectWithFlash(w, r, "/", shared.FlashSuccess, printer.Sprintf(noticeDeleted))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	var csrfToken string
	var flashes []shared.FlashMessage
	if sess != nil {
		csrfToken, _ = h.csrf.EnsureToken(r.Context(), sess)
		flashes = sess.PopFlashes()
	}
	viewData := view.TemplateData{
		Title:       title,
		Lang:        negotiateLocale(r, h.locale).String(),
		CSRFToken:   csrfToken,
		Flashes:     flashes,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, http.StatusOK, template, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", template))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// recordStoreError counts err unless it is an input problem caught before any
// statement ran.
func (h *Handler) recordStoreError(op string, err error) {
	if h.recorder == nil || errors.Is(err, ErrInvalidBirthDate) || errors.Is(err, ErrInvalidID) {
		return
	}
	h.recorder.RecordStoreError(op)
}

func (h *Handler) addFlash(r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	h.addFlash(r, kind, message)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
