package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"todo-backend/internal/domain"
	"todo-backend/internal/query"
	"todo-backend/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)

	r.Get("/health", s.healthHandler)

	r.Route("/todos", func(r chi.Router) {
		r.Post("/", s.createTodoHandler)
		r.Get("/", s.listTodosHandler)
		r.Get("/overdue", s.listOverdueHandler)
		r.Get("/status/{status}", s.listByStatusHandler)
		r.Get("/{id}", s.getTodoByIDHandler)
		r.Put("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World from Todo Backend!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&req)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) {
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if errors.Is(err, io.ErrUnexpectedEOF) {
			msg := "Request body contains badly-formed JSON"
			respondWithError(w, http.StatusBadRequest, msg)
		} else if errors.As(err, &unmarshalTypeError) {
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if strings.HasPrefix(err.Error(), "json: unknown field ") {
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if errors.Is(err, io.EOF) {
			msg := "Request body must not be empty"
			respondWithError(w, http.StatusBadRequest, msg)
		} else {
			log.Printf("Error decoding create todo request: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Error processing request")
		}
		return
	}

	todoResp, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, "CreateTodo", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, todoResp)
}

// parseListParams reads the optional list query parameters. Non-numeric
// page/size values are rejected here; range checks belong to the query
// builder.
func parseListParams(r *http.Request) (query.Params, error) {
	var params query.Params
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		params.Status = &v
	}
	if v := q.Get("priority"); v != "" {
		params.Priority = &v
	}
	params.SortBy = q.Get("sort_by")
	params.SortOrder = q.Get("sort_order")

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return query.Params{}, fmt.Errorf("%w: page must be an integer", domain.ErrInvalidPagination)
		}
		params.Page = &page
	}
	if v := q.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return query.Params{}, fmt.Errorf("%w: size must be an integer", domain.ErrInvalidPagination)
		}
		params.Size = &size
	}

	return params, nil
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	listResp, err := s.todoService.ListTodos(r.Context(), params)
	if err != nil {
		s.respondServiceError(w, "ListTodos", err)
		return
	}

	respondWithJSON(w, http.StatusOK, listResp)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	todo, err := s.todoService.GetTodoByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, "GetTodoByID", err)
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.UpdateTodoRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&req)
	if err != nil {
		log.Printf("Error decoding update todo request: %v", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updatedTodo, err := s.todoService.UpdateTodo(r.Context(), id, req)
	if err != nil {
		s.respondServiceError(w, "UpdateTodo", err)
		return
	}

	respondWithJSON(w, http.StatusOK, updatedTodo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.todoService.DeleteTodo(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, "DeleteTodo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")

	todos, err := s.todoService.ListByStatus(r.Context(), status)
	if err != nil {
		s.respondServiceError(w, "ListByStatus", err)
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) listOverdueHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.ListOverdue(r.Context())
	if err != nil {
		s.respondServiceError(w, "ListOverdue", err)
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

// respondServiceError maps the service error taxonomy to HTTP status codes.
// Store failures are logged and surfaced as a generic 500.
func (s *Server) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidSortField),
		errors.Is(err, domain.ErrInvalidSortOrder),
		errors.Is(err, domain.ErrInvalidPagination):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Error calling %s service: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
