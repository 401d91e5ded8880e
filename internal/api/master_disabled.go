//go:build !masterauth

package api

import "github.com/go-chi/chi/v5"

func (s *Server) mountMasterAuth(chi.Router) {}
