package prospect

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/prompt"
	"github.com/Loan69/ai-agent-prospection/internal/response"
)

// Qualify scores a raw lead with the model and persists the result with
// status qualified or archived.
func (a *Agent) Qualify(ctx context.Context, lead model.RawLead) (*model.QualifiedLead, error) {
	log := zap.L().With(zap.String("company", lead.CompanyName))

	text, err := a.complete(ctx, prompt.TaskQualification, prompt.Qualification(lead))
	if err != nil {
		return nil, eris.Wrap(err, "prospect: qualify")
	}
	res, err := response.ParseQualification(text)
	if err != nil {
		log.Warn("prospect: unparseable qualification", zap.String("reply", text))
		return nil, eris.Wrap(err, "prospect: qualify")
	}

	q := &model.QualifiedLead{
		RawLead:             lead,
		QualificationResult: *res,
		Status:              res.Status(),
	}
	if err := a.deps.Store.InsertQualifiedLead(ctx, q); err != nil {
		return nil, eris.Wrap(err, "prospect: qualify")
	}
	log.Info("prospect: lead qualified",
		zap.Int("score", q.Score),
		zap.String("verdict", string(q.Verdict)),
		zap.String("status", q.Status),
	)
	return q, nil
}

// GenerateMessage writes an outreach message and records it against the
// lead. A SKIP answer is returned without being recorded.
func (a *Agent) GenerateMessage(ctx context.Context, in model.MessageInput) (*model.GeneratedMessage, error) {
	msg, err := a.writeMessage(ctx, in)
	if err != nil {
		return nil, eris.Wrap(err, "prospect: generate message")
	}
	if msg.Skipped() {
		return &msg, nil
	}
	if err := a.deps.Store.InsertMessage(ctx, &model.MessageRecord{
		LeadID:  in.LeadID,
		Content: msg.Content,
		Channel: MessageChannel,
	}); err != nil {
		return nil, eris.Wrap(err, "prospect: generate message")
	}
	return &msg, nil
}

func (a *Agent) writeMessage(ctx context.Context, in model.MessageInput) (model.GeneratedMessage, error) {
	text, err := a.complete(ctx, prompt.TaskMessage, prompt.Message(in))
	if err != nil {
		return model.GeneratedMessage{}, err
	}
	return response.ParseMessage(text), nil
}
