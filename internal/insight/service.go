package insight

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/i18n"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	"github.com/fekuna/omnipos-retail-service/internal/report"
)

// Service narrates the dashboard of a reporting window for one user at a time.
type Service struct {
	reports    report.UseCase
	pool       *Pool
	formatter  *money.Formatter
	translator *i18n.Translator
}

func NewService(reports report.UseCase, pool *Pool, formatter *money.Formatter, translator *i18n.Translator) *Service {
	return &Service{
		reports:    reports,
		pool:       pool,
		formatter:  formatter,
		translator: translator,
	}
}

// Stream builds the prompt for window and narrates it on userID's narrator.
func (s *Service) Stream(ctx context.Context, userID string, window model.DateRange, acceptLanguage string, publish func(Update)) error {
	d, in, err := s.reports.Snapshot(ctx, window)
	if err != nil {
		return err
	}
	prompt := BuildPrompt(d, in.Categories, s.formatter)
	fallback := s.translator.T(acceptLanguage, i18n.MsgInsightUnavailable, nil)
	return s.pool.Get(userID).Narrate(ctx, prompt, fallback, publish)
}
