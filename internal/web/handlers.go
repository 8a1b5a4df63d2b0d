package web

import (
	"net/http"
	"strconv"

	"github.com/notesctl/notesctl/internal/ops"
)

// Handlers contains HTTP route handlers for the read-only viewer. No route
// mutates anything: the web surface never touches the write path.
type Handlers struct {
	env      *ops.Env
	renderer *Renderer
}

// HandleList handles GET /notes: list notes, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	folder := r.URL.Query().Get("folder")
	input := ops.ListInput{
		Folder: folder,
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
	}

	result, err := ops.List(h.env, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Notes",
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Folder:     folder,
		Stale:      result.Stale,
	})
}

// HandleDetail handles GET /notes/{identifier}: one decoded note.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	identifier := r.PathValue("identifier")

	result, err := ops.Get(h.env, ops.GetInput{Identifier: identifier})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   result.Title,
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Note:        result,
		RenderedDoc: renderDocument(result.Document),
	})
}

// HandleSearch handles GET /notes/search.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	scope := r.URL.Query().Get("scope")

	data := SearchPageData{
		PageData: PageData{
			Title:   "Search",
			Version: h.renderer.version,
			Nav:     "search",
		},
		Query:    query,
		Scope:    scope,
		HasQuery: query != "",
	}

	if query != "" {
		result, err := ops.Search(h.env, ops.SearchInput{Query: query, Scope: scope})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Items = result.Items
		data.Scope = result.Scope
		data.Stale = result.Stale
	}

	h.renderer.renderPage(w, "search", data)
}

// HandleFolders handles GET /folders: folders and accounts together.
func (h *Handlers) HandleFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := ops.Folders(h.env, ops.FoldersInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	accounts, err := ops.Accounts(h.env, ops.AccountsInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "folders", FoldersPageData{
		PageData: PageData{
			Title:   "Folders",
			Version: h.renderer.version,
			Nav:     "folders",
		},
		Folders:  folders.Items,
		Accounts: accounts.Items,
	})
}

// parseIntParam parses an integer query parameter with a default.
func parseIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
