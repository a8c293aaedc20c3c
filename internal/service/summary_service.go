package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	apperrors "curator/internal/errors"
	"curator/internal/model"
	"curator/internal/repository"
	"curator/internal/summarizer"
)

const analysisPrompt = `You are a content curation assistant. Analyze the article below.
Reply with a JSON object with exactly these keys:
"summary": a concise summary of at most three sentences,
"sentiment": one of "positive", "neutral" or "negative",
"topics": a list of up to five short topic labels.

Title: %s
Category: %s

%s`

// Analysis is the AI generated digest of an article.
type Analysis struct {
	ArticleID uint     `json:"article_id"`
	Summary   string   `json:"summary"`
	Sentiment string   `json:"sentiment"`
	Topics    []string `json:"topics"`
}

// SummaryService produces AI analyses of articles.
type SummaryService interface {
	Analyze(ctx context.Context, articleID uint) (*Analysis, error)
}

type summaryService struct {
	articles  repository.ArticleRepository
	generator summarizer.Generator
	cache     *cache.Cache
}

// NewSummaryService builds a SummaryService. A nil generator disables the
// feature. Analyses are kept in memory per article revision.
func NewSummaryService(articles repository.ArticleRepository, generator summarizer.Generator, ttl time.Duration) SummaryService {
	return &summaryService{
		articles:  articles,
		generator: generator,
		cache:     cache.New(ttl, 2*ttl),
	}
}

func (s *summaryService) Analyze(ctx context.Context, articleID uint) (*Analysis, error) {
	if s.generator == nil {
		return nil, apperrors.ErrSummaryDisabled
	}
	article, err := s.articles.GetFull(ctx, articleID)
	if err != nil {
		return nil, notFoundAs(ctx, "load article", err, apperrors.ErrArticleNotFound)
	}

	key := fmt.Sprintf("%d:%d", article.ID, article.UpdatedAt.UnixNano())
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Analysis), nil
	}

	raw, err := s.generator.Generate(ctx, buildPrompt(article))
	if err != nil {
		return nil, unexpected(ctx, "generate analysis", err)
	}
	analysis := parseAnalysis(raw)
	analysis.ArticleID = article.ID

	s.cache.SetDefault(key, analysis)
	return analysis, nil
}

func buildPrompt(a *model.Article) string {
	return fmt.Sprintf(analysisPrompt, a.Title, a.Category.Name, a.Content)
}

// parseAnalysis decodes the model answer. Answers that are not the expected
// JSON are kept verbatim as the summary.
func parseAnalysis(raw string) *Analysis {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")

	var a Analysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(trimmed)), &a); err != nil || a.Summary == "" {
		return &Analysis{Summary: strings.TrimSpace(raw), Topics: []string{}}
	}
	if a.Topics == nil {
		a.Topics = []string{}
	}
	return &a
}
