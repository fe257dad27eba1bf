package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/course-advisor/internal/transcript"
	"github.com/jonathan/course-advisor/internal/types"
)

const (
	// maxRequestBytes caps request bodies: a full-size transcript plus form fields.
	maxRequestBytes = transcript.MaxSize + 1<<20
	// multipartMemory is the part of a multipart body kept in memory before spilling to disk.
	multipartMemory = 8 << 20
)

// TranscriptResponse represents the response for /api/parse-transcript
type TranscriptResponse struct {
	Success bool     `json:"success"`
	Courses []string `json:"courses"`
	Count   int      `json:"count"`
}

// ResolveResponse represents the response for /api/professors/resolve
type ResolveResponse struct {
	Name      string                         `json:"name"`
	Tier      string                         `json:"tier"`
	Professor *types.ProfessorDirectoryEntry `json:"professor"`
}

// handleRecommendations ranks instructors for every course the student can still take.
// It accepts a JSON body or form fields; form values for completed_courses and
// preferences are JSON strings. A transcript upload supplies the completed
// courses when completed_courses is absent.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	logger := s.logger.With(zap.String("request_id", requestID))

	req, upload, err := s.readRecommendationRequest(w, r)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	if upload != nil {
		defer func() { _ = upload.Close() }()
	}

	// Query string wins over the body
	if dept := r.URL.Query().Get("department"); dept != "" {
		req.Department = dept
	}
	req.Department = strings.TrimSpace(req.Department)
	if err := req.Validate(); err != nil {
		s.fail(w, logger, err)
		return
	}

	completed, err := types.ParseCompletedCourses(req.CompletedCourses)
	if err != nil {
		logger.Warn("ignoring malformed completed courses", zap.Error(err))
	}
	if isAbsent(req.CompletedCourses) && upload != nil {
		completed, err = transcript.ExtractReader(upload, transcript.Options{})
		if err != nil {
			s.fail(w, logger, err)
			return
		}
	}

	prefs, err := types.ParsePreferences(req.Preferences)
	if err != nil {
		logger.Warn("ignoring malformed preferences", zap.Error(err))
	}

	recs, err := s.engine.GetRecommendations(r.Context(), req.Department, completed, prefs)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	logger.Info("recommendations served",
		zap.String("department", req.Department),
		zap.Int("completed", len(completed)),
		zap.Int("eligible", len(recs)),
	)

	s.jsonResponse(w, http.StatusOK, types.RecommendationResponse{
		Success:          true,
		RequestID:        requestID,
		Department:       req.Department,
		CompletedCourses: completed,
		Recommendations:  recs,
		TotalEligible:    len(recs),
	})
}

// readRecommendationRequest decodes the request body by content type. The
// returned file is the optional transcript upload; the caller closes it.
func (s *Server) readRecommendationRequest(w http.ResponseWriter, r *http.Request) (types.RecommendationRequest, multipart.File, error) {
	var req types.RecommendationRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return req, nil, bodyError(err)
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, nil, bodyError(err)
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, nil, bodyError(err)
		}
		return req, nil, nil
	}

	req.Department = r.PostFormValue("department")
	if v := r.PostFormValue("completed_courses"); v != "" {
		req.CompletedCourses = json.RawMessage(v)
	}
	if v := r.PostFormValue("preferences"); v != "" {
		req.Preferences = json.RawMessage(v)
	}

	if mediaType != "multipart/form-data" {
		return req, nil, nil
	}
	file, _, err := r.FormFile("transcript")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, bodyError(err)
	}
	return req, file, nil
}

// handleParseTranscript extracts completed course codes from an uploaded transcript.
func (s *Server) handleParseTranscript(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", uuid.New().String()))
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	file, header, err := r.FormFile("transcript")
	if errors.Is(err, http.ErrMissingFile) {
		s.fail(w, logger, &types.ValidationError{Field: "transcript", Message: "transcript file is required"})
		return
	}
	if err != nil {
		s.fail(w, logger, bodyError(err))
		return
	}
	defer func() { _ = file.Close() }()

	courses, err := transcript.ExtractReader(file, transcript.Options{Department: r.FormValue("department")})
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	logger.Info("transcript parsed", zap.String("filename", header.Filename), zap.Int("courses", len(courses)))
	s.jsonResponse(w, http.StatusOK, TranscriptResponse{
		Success: true,
		Courses: courses,
		Count:   len(courses),
	})
}

// handleResolveProfessor reports which directory entry a raw instructor name resolves to.
func (s *Server) handleResolveProfessor(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", uuid.New().String()))

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.fail(w, logger, &types.ValidationError{Field: "name", Message: "name is required"})
		return
	}

	res, err := s.engine.Resolver().Resolve(r.Context(), name)
	if err != nil {
		s.fail(w, logger, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ResolveResponse{
		Name:      name,
		Tier:      res.Tier.String(),
		Professor: res.Professor,
	})
}

// fail logs err and writes the matching error response.
func (s *Server) fail(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Info("request rejected", zap.Int("status", status), zap.Error(err))
	}
	s.errorResponse(w, status, errorMessage(err, status))
}

// bodyError classifies a request body that could not be read.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &types.ValidationError{Field: "body", Message: "invalid request body: " + err.Error()}
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
