package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	platformi18n "github.com/gdresist/optimizer/internal/platform/i18n"
	"github.com/gdresist/optimizer/internal/services/web/controller"
	webi18n "github.com/gdresist/optimizer/internal/services/web/i18n"
	"github.com/gdresist/optimizer/internal/services/web/platform/clientcookie"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
	"github.com/gdresist/optimizer/internal/services/web/platform/httpx"
	"github.com/gdresist/optimizer/internal/services/web/platform/pagerender"
	"github.com/gdresist/optimizer/internal/services/web/platform/requestmeta"
	"github.com/gdresist/optimizer/internal/services/web/platform/weberror"
	"github.com/gdresist/optimizer/internal/services/web/routepath"
	"github.com/gdresist/optimizer/internal/services/web/statestore"
	"github.com/gdresist/optimizer/internal/services/web/storage"
	"github.com/gdresist/optimizer/internal/services/web/submission"
	webtemplates "github.com/gdresist/optimizer/internal/services/web/templates"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pageOptions carries what a page load renders besides the form.
type pageOptions struct {
	status   int
	summary  *submission.OptimizeInput
	errorKey string
}

// localizer resolves the request locale, optionally persists a cookie, and
// returns a message printer with the resolved locale.
func localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, language.Tag, string) {
	tag, setCookie := webi18n.ResolveTag(r)
	if setCookie {
		webi18n.SetLanguageCookie(w, tag)
	}
	return webi18n.Printer(tag), tag, platformi18n.LocaleFor(tag)
}

func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routepath.Root {
		loc, _, lang := localizer(w, r)
		weberror.WritePageError(w, r, apperrors.E(apperrors.KindNotFound, "page not found"), lang, loc)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.loadPage(w, r, pageOptions{})
}

// loadPage starts a new page lifetime for the client and renders it.
func (h *handler) loadPage(w http.ResponseWriter, r *http.Request, opts pageOptions) {
	loc, tag, lang := localizer(w, r)
	clientID, err := clientcookie.Ensure(w, r)
	if err != nil {
		h.logger.Printf("issue client id failed err=%v", err)
		weberror.WritePageError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "issue client id", err), lang, loc)
		return
	}

	ctx := httpx.RequestContext(r)
	c := controller.New(controller.Deps{
		Catalog: h.catalog,
		Store:   statestore.New(storage.Scope(h.config.Store, clientID), h.logger),
		Loader:  h.loader,
		Sources: h.sources,
		Lang:    lang,
		Hooks:   webi18n.Hooks{},
		Logger:  h.logger,
	})
	c.Init(ctx)
	if evicted := h.pages.put(clientID, c); evicted > 0 {
		h.logger.Printf("evicted pages count=%d", evicted)
	}

	status := opts.status
	if status == 0 {
		status = http.StatusOK
	}
	var renderErr error
	c.View(func(v controller.View) {
		renderErr = pagerender.WritePage(w, r, status, webtemplates.Page(webtemplates.PageView{
			Lang:      v.Doc.Lang,
			Loc:       loc,
			Catalog:   h.catalog,
			Doc:       v.Doc,
			Tabs:      v.Tabs,
			ActiveTab: v.ActiveTab,
			ScrollY:   v.ScrollY,
			Languages: webi18n.LanguageOptions(tag),
			Summary:   opts.summary,
			ErrorKey:  opts.errorKey,
		}))
	})
	if renderErr != nil {
		h.logger.Printf("render page failed client=%s err=%v", clientID, renderErr)
		weberror.WritePageError(w, r, renderErr, lang, loc)
	}
}

// livePage returns the controller of the requesting client's current page.
func (h *handler) livePage(r *http.Request) (*controller.Controller, error) {
	clientID, ok := clientcookie.Read(r)
	if !ok {
		return nil, apperrors.EK(apperrors.KindNotFound, "error.no_page", "no client id; reload the page")
	}
	c, ok := h.pages.get(clientID)
	if !ok {
		return nil, apperrors.EK(apperrors.KindNotFound, "error.no_page", "no live page; reload the page")
	}
	return c, nil
}

func (h *handler) sameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requestmeta.SameOrigin(r, h.policy) {
			httpx.WriteError(w, apperrors.E(apperrors.KindForbidden, "cross-origin request rejected"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleInput(w http.ResponseWriter, r *http.Request) {
	c, err := h.livePage(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	name, ok := httpx.FormValue(r, "name")
	if !ok || name == "" {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "name is required"))
		return
	}
	// Text values keep their whitespace.
	value := r.PostFormValue("value")
	var seq uint64
	if raw, ok := httpx.FormValue(r, "seq"); ok && raw != "" {
		seq, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "seq must be a non-negative integer"))
			return
		}
	}
	if _, err := c.InputAt(httpx.RequestContext(r), name, value, seq); err != nil {
		h.logger.Printf("input rejected field=%s kind=%s err=%v", name, apperrors.KindOf(err), err)
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	h.handleListEdit(w, r, (*controller.Controller).AddItem)
}

func (h *handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	h.handleListEdit(w, r, (*controller.Controller).RemoveItem)
}

func (h *handler) handleListEdit(w http.ResponseWriter, r *http.Request, edit func(*controller.Controller, context.Context, string, string) error) {
	c, err := h.livePage(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	name, _ := httpx.FormValue(r, "name")
	value, _ := httpx.FormValue(r, "value")
	if name == "" || value == "" {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "name and value are required"))
		return
	}
	if err := edit(c, httpx.RequestContext(r), name, value); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSwitchTab(w http.ResponseWriter, r *http.Request) {
	c, err := h.livePage(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	tab, _ := httpx.FormValue(r, "tab")
	scrollY, err := scrollValue(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := c.SwitchTab(httpx.RequestContext(r), tab, scrollY); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmit records the page state for the next load, parses the form,
// and renders the next page with the parsed input.
func (h *handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		loc, _, lang := localizer(w, r)
		weberror.WritePageError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "parse form", err), lang, loc)
		return
	}
	scrollY, err := scrollValue(r)
	if err != nil {
		scrollY = 0
	}
	if c, err := h.livePage(r); err == nil {
		c.Submit(httpx.RequestContext(r), scrollY)
	}

	input, err := submission.Parse(r.PostForm, h.catalog)
	if err != nil {
		h.logger.Printf("submission rejected kind=%s err=%v", apperrors.KindOf(err), err)
		key := apperrors.LocalizationKey(err)
		if key == "" {
			key = "error.invalid_input"
		}
		h.loadPage(w, r, pageOptions{status: apperrors.HTTPStatus(err), errorKey: key})
		return
	}
	h.loadPage(w, r, pageOptions{summary: &input})
}

// handleLanguage stores the language choice, re-renders the live page in it,
// and sends the browser back to the form.
func (h *handler) handleLanguage(w http.ResponseWriter, r *http.Request) {
	value := strings.TrimSpace(r.URL.Query().Get(webi18n.LangParam))
	tag, ok := platformi18n.ParseTag(value)
	if !ok {
		loc, _, lang := localizer(w, r)
		weberror.WritePageError(w, r, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_input", "unsupported language"), lang, loc)
		return
	}
	webi18n.SetLanguageCookie(w, tag)
	if c, err := h.livePage(r); err == nil {
		c.SetLanguage(httpx.RequestContext(r), platformi18n.LocaleFor(tag))
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"pages":  h.pages.len(),
	})
}

func scrollValue(r *http.Request) (int, error) {
	raw, ok := httpx.FormValue(r, webtemplates.ScrollFieldName)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_number", "scroll must be a number")
	}
	return max(0, int(n)), nil
}
