package server

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/audit"
	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/prospect"
	"github.com/Loan69/ai-agent-prospection/internal/response"
	"github.com/Loan69/ai-agent-prospection/internal/store"
)

// statusOf maps an agent error to an HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, prospect.ErrNoCompleter):
		return http.StatusServiceUnavailable
	case errors.Is(err, response.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) handleQualify(w http.ResponseWriter, r *http.Request) {
	var lead model.RawLead
	if !decode(w, r, &lead) {
		return
	}
	if strings.TrimSpace(lead.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "company_name is required")
		return
	}

	q, err := s.agent.Qualify(r.Context(), lead)
	if err != nil {
		zap.L().Error("qualify lead failed", zap.String("company", lead.CompanyName), zap.Error(err))
		writeError(w, statusOf(err), "qualification failed")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		model.MessageInput
		Segment string `json:"segment"`
	}
	if !decode(w, r, &req) {
		return
	}
	seg, ok := model.ParseSegment(req.Segment)
	if !ok {
		writeError(w, http.StatusBadRequest, "segment must be Artisan, B2B or Freelance/SME")
		return
	}
	in := req.MessageInput
	in.Segment = seg
	if strings.TrimSpace(in.CompanyName) == "" {
		writeError(w, http.StatusBadRequest, "company_name is required")
		return
	}

	msg, err := s.agent.GenerateMessage(r.Context(), in)
	if err != nil {
		zap.L().Error("generate message failed", zap.String("company", in.CompanyName), zap.Error(err))
		writeError(w, statusOf(err), "message generation failed")
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// auditRequest names a stored lead or carries the business inline.
type auditRequest struct {
	PlaceID  string                `json:"place_id"`
	Business *model.BusinessEntity `json:"business"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if !decode(w, r, &req) {
		return
	}

	var entity model.BusinessEntity
	switch {
	case req.PlaceID != "":
		lead, err := s.store.GetLead(r.Context(), req.PlaceID)
		if err != nil {
			writeError(w, statusOf(err), "lead not available")
			return
		}
		entity = lead.Entity()
	case req.Business != nil && strings.TrimSpace(req.Business.Name) != "":
		entity = *req.Business
	default:
		writeError(w, http.StatusBadRequest, "place_id or business.name is required")
		return
	}

	rep := audit.Build(entity, s.now())
	w.Header().Set("Content-Disposition", `inline; filename="`+rep.FileName+`"`)
	writeJSON(w, http.StatusOK, rep)
}

type saveConfigResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.GetAgentConfig(r.Context())
	if err != nil {
		zap.L().Error("read agent config failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "configuration unavailable")
		return
	}
	if cfg == nil {
		writeJSON(w, http.StatusOK, s.defaults)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.AgentConfig
	if !decode(w, r, &cfg) {
		return
	}
	if msg := validateAgentConfig(cfg); msg != "" {
		writeJSON(w, http.StatusBadRequest, saveConfigResponse{Error: msg})
		return
	}
	if err := s.store.SaveAgentConfig(r.Context(), cfg); err != nil {
		zap.L().Error("save agent config failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, saveConfigResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saveConfigResponse{Success: true})
}

func validateAgentConfig(c model.AgentConfig) string {
	switch {
	case c.Radius < 0:
		return "radius must be >= 0"
	case c.MaxResultsPerZone < 0:
		return "max_results_per_zone must be >= 0"
	case c.MinReviews < 0:
		return "min_reviews must be >= 0"
	case c.MinRating < 0 || c.MinRating > 5:
		return "min_rating must be within [0,5]"
	}
	return ""
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	var f store.LeadFilter
	var err error
	if f.MinScore, err = queryInt(r, "min_score"); err == nil {
		if f.Limit, err = queryInt(r, "limit"); err == nil {
			f.Offset, err = queryInt(r, "offset")
		}
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	leads, err := s.store.ListLeads(r.Context(), f)
	if err != nil {
		zap.L().Error("list leads failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "leads unavailable")
		return
	}
	if leads == nil {
		leads = []model.LeadRecord{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	f := store.ProjectFilter{MatchedOnly: r.URL.Query().Get("matched") == "true"}
	var err error
	if f.Limit, err = queryInt(r, "limit"); err == nil {
		f.Offset, err = queryInt(r, "offset")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := s.store.ListProjects(r.Context(), f)
	if err != nil {
		zap.L().Error("list projects failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "projects unavailable")
		return
	}
	if projects == nil {
		projects = []model.ProjectRecord{}
	}
	writeJSON(w, http.StatusOK, projects)
}
