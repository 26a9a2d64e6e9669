package server

import "net/http"

func (s *Server) RegisterRoutes() {
	s.router.Use(s.requestID, s.accessLog)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts", s.HandleAPIIndex()).Methods(http.MethodGet)
	api.HandleFunc("/posts/create", s.HandleAPICreate()).Methods(http.MethodPost)
	api.HandleFunc("/posts/update", s.HandleAPIUpdate()).Methods(http.MethodPut)
	api.HandleFunc("/posts/{id:[0-9]+}", s.HandleAPIShow()).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id:[0-9]+}/delete", s.HandleAPIDelete()).Methods(http.MethodDelete)
	// Everything else under /api, including method mismatches on the routes
	// above, answers the not-found envelope.
	api.PathPrefix("/").HandlerFunc(s.HandleAPINotFound())

	s.router.HandleFunc("/posts", s.HandleIndex()).Methods(http.MethodGet)
	s.router.HandleFunc("/posts/new", s.HandleNew()).Methods(http.MethodGet)
	s.router.HandleFunc("/posts/create", s.HandleCreate()).Methods(http.MethodPost)
	s.router.HandleFunc("/posts/{id:[0-9]+}", s.HandleShow()).Methods(http.MethodGet)
	s.router.HandleFunc("/posts/{id:[0-9]+}/edit", s.HandleEdit()).Methods(http.MethodGet)
	s.router.HandleFunc("/posts/{id:[0-9]+}/update", s.HandleUpdate()).Methods(http.MethodPost)
	s.router.HandleFunc("/posts/{id:[0-9]+}/delete", s.HandleDestroy()).Methods(http.MethodGet)
	s.router.PathPrefix("/").HandlerFunc(s.HandleNotFound())
}
