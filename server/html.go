package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"msgboard/factory"
	"msgboard/pkg/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	// nl2br escapes first, then turns newlines into line breaks, so message
	// bodies keep their line structure without opening an injection hole.
	"nl2br": func(s string) template.HTML {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br />"))
	},
}).ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Title    string
	Flash    []string
	Messages []factory.Message
	Message  factory.Message
}

const flashSessionName = "msgboard-flash"

func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, text string) {
	session, _ := s.sessions.Get(r, flashSessionName)
	session.AddFlash(text)
	if err := session.Save(r, w); err != nil {
		s.logger.Error("Saving flash session failed", "error", err)
	}
}

func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) []string {
	session, _ := s.sessions.Get(r, flashSessionName)
	raw := session.Flashes()
	if len(raw) > 0 {
		if err := session.Save(r, w); err != nil {
			s.logger.Error("Clearing flash session failed", "error", err)
		}
	}
	texts := make([]string, 0, len(raw))
	for _, f := range raw {
		if text, ok := f.(string); ok {
			texts = append(texts, text)
		}
	}
	return texts
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Rendering template failed", "template", name, "error", err)
	}
}

func (s *Server) HandleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "index.html", pageData{
			Title:    "Messages",
			Flash:    s.popFlash(w, r),
			Messages: s.message.GetAllSorted(),
		})
	}
}

func (s *Server) HandleNew() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, "new.html", pageData{Title: "New message"})
	}
}

func (s *Server) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		msg := factory.Message{
			Posted:  time.Now().Format(factory.PostedLayout),
			Sender:  r.PostFormValue("sender"),
			Content: r.PostFormValue("content"),
		}
		if _, err := s.message.Create(msg); err != nil {
			s.logger.Error("Storing message failed", "error", err, "requestId", requestIDFrom(r.Context()))
			http.Error(w, "failed to store message", http.StatusInternalServerError)
			return
		}
		s.addFlash(w, r, "Message posted.")
		http.Redirect(w, r, "/posts", http.StatusSeeOther)
	}
}

func (s *Server) HandleShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		post, err := s.message.GetByID(id)
		if errors.Is(err, message.ErrNotFound) {
			s.HandleNotFound()(w, r)
			return
		}
		s.render(w, http.StatusOK, "show.html", pageData{
			Title:   "Message",
			Flash:   s.popFlash(w, r),
			Message: post,
		})
	}
}

func (s *Server) HandleEdit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		post, err := s.message.GetByID(id)
		if errors.Is(err, message.ErrNotFound) {
			s.HandleNotFound()(w, r)
			return
		}
		s.render(w, http.StatusOK, "edit.html", pageData{
			Title:   "Edit message",
			Message: post,
		})
	}
}

func (s *Server) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		msg := factory.Message{
			ID:      id,
			Posted:  r.PostFormValue("posted"),
			Sender:  r.PostFormValue("sender"),
			Content: r.PostFormValue("content"),
		}
		if _, err := s.message.Update(msg); err != nil {
			s.logger.Error("Updating message failed", "error", err, "requestId", requestIDFrom(r.Context()))
			http.Error(w, "failed to store message", http.StatusInternalServerError)
			return
		}
		s.addFlash(w, r, "Message updated.")
		http.Redirect(w, r, "/posts", http.StatusSeeOther)
	}
}

func (s *Server) HandleDestroy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		if _, err := s.message.Delete(id); err != nil {
			s.logger.Error("Deleting message failed", "error", err, "requestId", requestIDFrom(r.Context()))
			http.Error(w, "failed to store message", http.StatusInternalServerError)
			return
		}
		s.addFlash(w, r, "Message deleted.")
		http.Redirect(w, r, "/posts", http.StatusSeeOther)
	}
}

func (s *Server) HandleNotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusNotFound, "notfound.html", pageData{Title: "Not found"})
	}
}
