package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/core/ports"
)

// chatFallbackAnswer is returned whenever the assistant backend cannot be
// reached. Chat never surfaces a 5xx to the reader.
const chatFallbackAnswer = "Sorry, I am unable to answer that right now. Please try again later."

const defaultDiscussionAuthor = "Anonymous"

type Deps struct {
	Ingestor       ports.DocumentIngestor
	Documents      ports.DocumentRepository
	Tickets        ports.TicketRepository
	Discussions    ports.DiscussionRepository
	Storage        ports.ObjectStorage
	Chat           ports.ChatAssistant
	Exporter       ports.CatalogExporter
	Genres         []string
	MaxUploadBytes int64
	OpenAPIDoc     []byte
}

type Router struct {
	deps Deps
}

func NewRouter(deps Deps) *Router {
	return &Router{deps: deps}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents", rt.listDocuments)
	mux.HandleFunc("GET /v1/documents/search", rt.searchDocuments)
	mux.HandleFunc("GET /v1/documents/export", rt.exportCatalog)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocumentByID)
	mux.HandleFunc("POST /v1/documents/{id}/vote", rt.voteDocument)
	mux.HandleFunc("GET /v1/documents/{id}/file", rt.downloadDocument)
	mux.HandleFunc("GET /v1/documents/{id}/discussions", rt.listDiscussions)
	mux.HandleFunc("POST /v1/documents/{id}/discussions", rt.createDiscussion)
	mux.HandleFunc("POST /v1/discussions/{id}/vote", rt.voteDiscussion)
	mux.HandleFunc("GET /v1/tickets", rt.listTickets)
	mux.HandleFunc("POST /v1/tickets", rt.createTicket)
	mux.HandleFunc("POST /v1/tickets/{id}/upvote", rt.upvoteTicket)
	mux.HandleFunc("POST /v1/chat", rt.chat)
	mux.HandleFunc("GET /v1/genres", rt.listGenres)
	mux.HandleFunc("GET /v1/openapi.json", rt.openAPIDocument)
	return instrument(mux)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if rt.deps.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.deps.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.deps.Ingestor.Upload(
		r.Context(),
		r.FormValue("title"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.deps.Documents.List(r.Context(), r.URL.Query().Get("genre"))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (rt *Router) searchDocuments(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	docs, err := rt.deps.Documents.Search(r.Context(), query)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.deps.Documents.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) downloadDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.deps.Documents.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	reader, err := rt.deps.Storage.Open(r.Context(), doc.StoragePath)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), "stored file is unavailable")
		return
	}
	defer reader.Close()

	contentType := doc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		slog.Warn("document download interrupted", "document_id", doc.ID, "error", err)
	}
}

func (rt *Router) exportCatalog(w http.ResponseWriter, r *http.Request) {
	docs, err := rt.deps.Documents.List(r.Context(), "")
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.xlsx"`)
	if err := rt.deps.Exporter.Export(docs, w); err != nil {
		slog.Error("catalog export failed", "error", err)
	}
}

func (rt *Router) listDiscussions(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if _, err := rt.deps.Documents.GetByID(r.Context(), documentID); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	discussions, err := rt.deps.Discussions.ListByDocument(r.Context(), documentID)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, discussions)
}

func (rt *Router) createDiscussion(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if _, err := rt.deps.Documents.GetByID(r.Context(), documentID); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	var req struct {
		ParentID string `json:"parent_id"`
		Author   string `json:"author"`
		Content  string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = defaultDiscussionAuthor
	}

	discussion := &domain.Discussion{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		ParentID:   strings.TrimSpace(req.ParentID),
		Author:     author,
		Content:    strings.TrimSpace(req.Content),
		CreatedAt:  time.Now().UTC(),
	}
	if err := rt.deps.Discussions.Create(r.Context(), discussion); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, discussion)
}

func decodeVoteDirection(r *http.Request) (domain.VoteDirection, error) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", errors.New("invalid json")
	}
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "up":
		return domain.VoteUp, nil
	case "down":
		return domain.VoteDown, nil
	default:
		return "", errors.New("vote type must be 'up' or 'down'")
	}
}

func (rt *Router) voteDocument(w http.ResponseWriter, r *http.Request) {
	direction, err := decodeVoteDirection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := rt.deps.Documents.Vote(r.Context(), r.PathValue("id"), direction)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) voteDiscussion(w http.ResponseWriter, r *http.Request) {
	direction, err := decodeVoteDirection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	discussion, err := rt.deps.Discussions.Vote(r.Context(), r.PathValue("id"), direction)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, discussion)
}

func (rt *Router) listTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := rt.deps.Tickets.List(r.Context())
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (rt *Router) createTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := rt.deps.Tickets.Create(r.Context(), ticket); err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (rt *Router) upvoteTicket(w http.ResponseWriter, r *http.Request) {
	votes, err := rt.deps.Tickets.Upvote(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"votes": votes})
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := rt.deps.Chat.Ask(r.Context(), req.Question)
	if err != nil {
		slog.Warn("chat assistant unavailable", "request_id", requestIDFromContext(r.Context()), "error", err)
		answer = chatFallbackAnswer
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (rt *Router) listGenres(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"genres": rt.deps.Genres})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, _ *http.Request) {
	if len(rt.deps.OpenAPIDoc) == 0 {
		writeError(w, http.StatusNotFound, "api description is not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(rt.deps.OpenAPIDoc)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
