package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"msgboard/factory"
	"msgboard/pkg/message"
)

// HandleAPIIndex lists every message, newest first.
func (s *Server) HandleAPIIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := ParseFormat(r.URL.Query().Get("format"))
		posts := s.message.GetAllSorted()
		s.respond(w, http.StatusOK, format, okItems(posts))
	}
}

// HandleAPIShow returns a single message by id.
func (s *Server) HandleAPIShow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := ParseFormat(r.URL.Query().Get("format"))
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			s.respond(w, http.StatusBadRequest, format, errReason("invalid id"))
			return
		}

		post, err := s.message.GetByID(id)
		if errors.Is(err, message.ErrNotFound) {
			s.respond(w, http.StatusNotFound, format, errReason("message not found"))
			return
		}
		s.respond(w, http.StatusOK, format, okItem(post))
	}
}

// HandleAPICreate stores a new message. The id and the posted timestamp in
// the request body are ignored; the store assigns the id and the server
// clock stamps posted. The response is always JSON.
func (s *Server) HandleAPICreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params factory.Message
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			s.respond(w, http.StatusBadRequest, FormatJSON, errReason("invalid message body"))
			return
		}

		msg := factory.Message{
			Posted:  time.Now().Format(factory.PostedLayout),
			Sender:  params.Sender,
			Content: params.Content,
		}
		msg, err := s.message.Create(msg)
		if err != nil {
			s.logger.Error("Storing message failed", "error", err, "requestId", requestIDFrom(r.Context()))
			s.respond(w, http.StatusInternalServerError, FormatJSON, errReason("failed to store message"))
			return
		}
		s.respond(w, http.StatusOK, FormatJSON, okItem(msg))
	}
}

// HandleAPIUpdate replaces the stored message carrying the body's id. The
// operation is idempotent: an unknown id changes nothing, and the response
// echoes the input either way. Always JSON.
func (s *Server) HandleAPIUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params factory.Message
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			s.respond(w, http.StatusBadRequest, FormatJSON, errReason("invalid message body"))
			return
		}
		if err := s.validate.Struct(params); err != nil {
			s.respond(w, http.StatusBadRequest, FormatJSON, errReason("invalid message body"))
			return
		}

		affected, err := s.message.Update(params)
		if err != nil {
			s.logger.Error("Updating message failed", "error", err, "requestId", requestIDFrom(r.Context()))
			s.respond(w, http.StatusInternalServerError, FormatJSON, errReason("failed to store message"))
			return
		}
		if !affected {
			s.logger.Debug("Update of unknown id ignored", "id", params.ID)
		}
		s.respond(w, http.StatusOK, FormatJSON, okItem(params))
	}
}

// HandleAPIDelete removes a message by id. Deleting an unknown id is a
// silent no-op.
func (s *Server) HandleAPIDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := ParseFormat(r.URL.Query().Get("format"))
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			s.respond(w, http.StatusBadRequest, format, errReason("invalid id"))
			return
		}

		affected, err := s.message.Delete(id)
		if err != nil {
			s.logger.Error("Deleting message failed", "error", err, "requestId", requestIDFrom(r.Context()))
			s.respond(w, http.StatusInternalServerError, format, errReason("failed to store message"))
			return
		}
		if !affected {
			s.logger.Debug("Delete of unknown id ignored", "id", id)
		}
		s.respond(w, http.StatusOK, format, okNone())
	}
}

// HandleAPINotFound answers any unmatched route under /api.
func (s *Server) HandleAPINotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := ParseFormat(r.URL.Query().Get("format"))
		s.respond(w, http.StatusNotFound, format, errReason("API not found"))
	}
}
