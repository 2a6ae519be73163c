package prospect

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// FeedRun reads the freelance feed, answers every new matching project and
// persists the answers. A feed outage is reported as a warning and yields
// an empty run.
func (a *Agent) FeedRun(ctx context.Context, out Emitter) (tally Tally, err error) {
	ev := a.events(out)
	defer func() {
		if err != nil {
			ev.error("Erreur: %v", err)
		}
		ev.emit(EventComplete, tally, "Résumé")
	}()

	if a.deps.Feed == nil {
		return tally, eris.New("prospect: no feed source configured")
	}
	if a.deps.Completer == nil {
		return tally, ErrNoCompleter
	}

	ev.info("Démarrage de la recherche Codeur.com...")
	ev.info("Récupération du flux RSS...")
	items, ferr := a.deps.Feed.Fetch(ctx)
	if ferr != nil {
		if ctx.Err() != nil {
			return tally, eris.Wrap(ctx.Err(), "prospect: feed run")
		}
		zap.L().Warn("prospect: feed fetch failed", zap.Error(ferr))
		ev.warning("Flux RSS indisponible: %v", ferr)
		items = nil
	}
	tally.Total = len(items)
	ev.success("%d projets trouvés dans le flux RSS", len(items))

	ev.info("Filtrage des projets pertinents...")
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return tally, eris.Wrap(err, "prospect: feed run")
		}
		if !a.cfg.Matcher.Match(it) {
			tally.Add(OutcomeSkippedUnmatched)
			continue
		}
		tally.Relevant++
		tally.Add(a.processProject(ctx, ev, it))
	}

	ev.success("Recherche terminée !")
	return tally, nil
}

func (a *Agent) processProject(ctx context.Context, ev events, it model.FeedItem) Outcome {
	log := zap.L().With(zap.String("url", it.Link))
	ev.info("Analyse du projet: %q", truncate(it.Title, 50))

	exists, err := a.deps.Store.ProjectExists(ctx, it.Link)
	if err != nil {
		log.Error("prospect: project lookup failed", zap.Error(err))
		ev.error("Erreur de lecture en base: %v", err)
		return OutcomeFailed
	}
	if exists {
		ev.warning("Déjà analysé, passage au suivant")
		return OutcomeSkippedDuplicate
	}

	if err := a.pace(ctx); err != nil {
		ev.error("Erreur: %v", err)
		return OutcomeFailed
	}

	ev.info("Génération de la réponse par IA...")
	msg, err := a.writeMessage(ctx, model.MessageInput{
		CompanyName:     FeedCompanyName,
		Segment:         model.SegmentFreelance,
		ProblemDetected: it.Description,
		BusinessAngle:   FeedBusinessAngle,
	})
	if err != nil {
		log.Error("prospect: message generation failed", zap.Error(err))
		ev.error("Erreur de génération: %v", err)
		return OutcomeFailed
	}
	if msg.Skipped() {
		ev.warning("IA a décidé de skipper ce projet")
		return OutcomeSkippedLowScore
	}

	record := model.ProjectRecord{
		URL:              it.Link,
		Title:            it.Title,
		Description:      it.Description,
		Matched:          true,
		MessageGenerated: msg.Content,
		Score:            msg.Score,
		FetchedAt:        a.now().UTC(),
	}
	ev.info("Sauvegarde dans la base de données...")
	if err := a.deps.Store.UpsertProject(ctx, record); err != nil {
		log.Error("prospect: save project failed", zap.Error(err))
		ev.error("Erreur lors de la sauvegarde")
		return OutcomeFailed
	}
	if err := a.deps.Notifier.ProjectQualified(ctx, record); err != nil {
		log.Warn("prospect: notify failed", zap.Error(err))
	}

	ev.emit(EventSuccess,
		map[string]any{"score": msg.Score, "title": truncate(it.Title, 60)},
		"Projet qualifié ! Score: %s/10", scoreText(msg.Score))
	return OutcomeQualified
}

func scoreText(s *int) string {
	if s == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *s)
}

// truncate cuts s to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
