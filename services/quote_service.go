package services

import (
	"context"
	"errors"
	"math"

	"phonexchange_backend/metrics"
	"phonexchange_backend/models"
	"phonexchange_backend/storage"
	"phonexchange_backend/utils"
)

// CalculateQuote prices a device of phoneModel against the ordered
// questionnaire. Missing answers count as "no"; answers for unknown
// question ids are ignored.
//
// Questions are walked in order. A blocking question answered adversely
// stops the walk and zeroes the quote; deductions collected before it are
// kept. Any other adverse answer adds its percentage. The total is not
// capped, so a large enough total yields a negative price.
func CalculateQuote(phoneModel models.PhoneModel, questions []models.Question, answers map[string]bool) models.Quote {
	quote := models.Quote{
		BasePrice:  phoneModel.BasePrice,
		Deductions: []models.Deduction{},
	}

	total := 0.0
	for _, q := range questions {
		if !q.Adverse(answers[q.ID]) {
			continue
		}
		if q.IsBlocking {
			reason := q.Text
			quote.IsBlocked = true
			quote.BlockReason = &reason
			break
		}
		quote.Deductions = append(quote.Deductions, models.Deduction{
			Question:   q.Text,
			Percentage: q.DeductionPercentage,
		})
		total += q.DeductionPercentage
	}

	if !quote.IsBlocked {
		quote.FinalPrice = int(math.Floor(float64(phoneModel.BasePrice) * (1 - total/100)))
	}
	return quote
}

type QuoteService struct {
	store storage.Store
	log   utils.Logger
}

func NewQuoteService(store storage.Store, log utils.Logger) *QuoteService {
	return &QuoteService{
		store: store,
		log:   log.WithFields(map[string]interface{}{"service": "quote"}),
	}
}

// Quote loads the model and questionnaire and prices the answers.
func (s *QuoteService) Quote(ctx context.Context, modelID string, answers map[string]bool) (*models.Quote, error) {
	phoneModel, err := s.store.GetModel(ctx, modelID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NewNotFoundError("Phone model not found", "model_id: "+modelID)
	}
	if err != nil {
		return nil, utils.NewStoreUnavailableError("get_model", err)
	}

	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, utils.NewStoreUnavailableError("list_questions", err)
	}

	quote := CalculateQuote(*phoneModel, questions, answers)

	outcome := "priced"
	if quote.IsBlocked {
		outcome = "blocked"
	}
	metrics.QuotesComputed.WithLabelValues(outcome).Inc()
	s.log.Debug("quote computed", map[string]interface{}{
		"model_id":    modelID,
		"outcome":     outcome,
		"final_price": quote.FinalPrice,
		"deductions":  len(quote.Deductions),
	})

	return &quote, nil
}
