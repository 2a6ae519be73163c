package prospect

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/heuristic"
	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/places"
	"github.com/Loan69/ai-agent-prospection/internal/prompt"
	"github.com/Loan69/ai-agent-prospection/internal/response"
)

// PlacesRun scans every configured zone, scores the relevant businesses and
// persists the ones worth contacting. The complete event is always emitted,
// with the partial tally when the run is interrupted.
func (a *Agent) PlacesRun(ctx context.Context, out Emitter) (tally Tally, err error) {
	ev := a.events(out)
	defer func() {
		if err != nil {
			ev.error("Erreur: %v", err)
		}
		ev.emit(EventComplete, tally, "Résumé")
	}()

	if a.deps.Searcher == nil {
		return tally, eris.New("prospect: no places searcher configured")
	}
	if a.deps.Completer == nil && !a.cfg.Heuristic {
		return tally, ErrNoCompleter
	}

	ev.info("Démarrage de la recherche Google Maps...")
	cfg := a.scanConfig(ctx, ev)
	ev.success("Configuration chargée: %d zones, rayon %dm", len(cfg.Zones), cfg.Radius)

	var found []model.Place
	for i, zone := range cfg.Zones {
		if err := ctx.Err(); err != nil {
			return tally, eris.Wrap(err, "prospect: places run")
		}
		ev.info("[%d/%d] Recherche dans %s...", i+1, len(cfg.Zones), zone)
		zp, err := a.deps.Searcher.SearchZone(ctx, places.ZoneQuery{
			Zone:       zone,
			Radius:     cfg.Radius,
			MaxResults: cfg.MaxResultsPerZone,
			Keywords:   cfg.Keywords,
		})
		if err != nil {
			ev.warning("Erreur sur %s: %v", zone, err)
			continue
		}
		found = append(found, zp...)
		ev.success("%d entreprises trouvées dans %s", len(zp), zone)
	}

	unique := places.Dedupe(found)
	tally.Total = len(unique)
	ev.success("TOTAL: %d entreprises uniques trouvées", len(unique))

	relevant := cfg.Filter.Apply(unique)
	tally.Relevant = len(relevant)
	ev.success("%d entreprises pertinentes", len(relevant))

	for i, p := range relevant {
		if err := a.pace(ctx); err != nil {
			return tally, eris.Wrap(err, "prospect: places run")
		}
		ev.info("[%d/%d] Analyse de: %s", i+1, len(relevant), p.Name)
		tally.Add(a.processPlace(ctx, ev, cfg, p))
	}

	ev.success("Recherche terminée !")
	return tally, nil
}

// processPlace runs one business through dedup, website analysis, scoring,
// the threshold gate and persistence.
func (a *Agent) processPlace(ctx context.Context, ev events, cfg Config, p model.Place) Outcome {
	log := zap.L().With(zap.String("place_id", p.ID), zap.String("name", p.Name))

	exists, err := a.deps.Store.LeadExists(ctx, p.ID)
	if err != nil {
		log.Error("prospect: lead lookup failed", zap.Error(err))
		ev.error("Erreur de lecture en base: %v", err)
		return OutcomeFailed
	}
	if exists {
		ev.warning("Déjà analysée, passage au suivant")
		return OutcomeSkippedDuplicate
	}

	var signals *model.WebsiteSignals
	if p.Website != "" {
		ev.info("Analyse du site web...")
		s := a.deps.Detector.Detect(ctx, p.Website)
		signals = &s
		ev.success("Site analysé: %d problème(s) détecté(s)", len(s.Issues))
	} else {
		ev.info("Pas de site web")
	}

	entity := p.Entity(signals)
	scoring, err := a.score(ctx, ev, entity, cfg.ContactThreshold)
	if err != nil {
		log.Error("prospect: scoring failed", zap.Error(err))
		ev.error("Erreur de scoring: %v", err)
		return OutcomeFailed
	}
	if cfg.EnforceNoProblemCap {
		scoring = CapClean(entity, scoring, cfg.ContactThreshold)
	}
	ev.info("Score: %d/10 (Taille: %s)", scoring.Score, scoring.EstimatedSize)

	if scoring.Score < cfg.ContactThreshold || scoring.Skipped() {
		ev.warning("Score trop faible, skip")
		return OutcomeSkippedLowScore
	}

	record := model.LeadRecord{
		PlaceID:        p.ID,
		BusinessName:   p.Name,
		Address:        p.Address,
		Phone:          p.Phone,
		Website:        p.Website,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		Category:       entity.Category,
		EstimatedSize:  scoring.EstimatedSize,
		HasWebsite:     entity.HasWebsite,
		WebsiteSignals: signals,
		Score:          scoring.Score,
		Reasoning:      scoring.Reasoning,
		Message:        scoring.Message,
		FetchedAt:      a.now().UTC(),
	}

	ev.info("Sauvegarde dans la base...")
	if err := a.deps.Store.UpsertLead(ctx, record); err != nil {
		log.Error("prospect: save lead failed", zap.Error(err))
		ev.error("Erreur lors de la sauvegarde")
		return OutcomeFailed
	}
	if err := a.deps.Notifier.LeadQualified(ctx, record); err != nil {
		log.Warn("prospect: notify failed", zap.Error(err))
	}

	ev.emit(EventSuccess, map[string]any{"name": p.Name, "score": scoring.Score}, "Lead qualifié !")
	return OutcomeQualified
}

// score asks the model, or the heuristic scorer in heuristic mode. A failed
// completion degrades to the heuristic score unless the run was canceled.
func (a *Agent) score(ctx context.Context, ev events, entity model.BusinessEntity, threshold int) (model.ScoringResult, error) {
	if a.cfg.Heuristic {
		return heuristic.Score(entity), nil
	}
	ev.info("Scoring par IA...")
	text, err := a.complete(ctx, prompt.TaskScoring, prompt.BusinessScoring(entity, threshold))
	if err != nil {
		if ctx.Err() != nil {
			return model.ScoringResult{}, err
		}
		zap.L().Warn("prospect: model scoring failed, using heuristic", zap.String("name", entity.Name), zap.Error(err))
		ev.warning("Scoring IA indisponible, score heuristique utilisé")
		return heuristic.Score(entity), nil
	}
	return response.ParseScoring(text), nil
}

// CapClean keeps a business whose existing website shows no issue and no
// opportunity below threshold, and drops its message.
func CapClean(entity model.BusinessEntity, s model.ScoringResult, threshold int) model.ScoringResult {
	if !entity.HasWebsite || entity.WebsiteSignals == nil || !entity.WebsiteSignals.Clean() {
		return s
	}
	if s.Score >= threshold {
		s.Score = max(threshold-1, 0)
		s.Message = model.SkipMessage
	}
	return s
}
