// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package sentiment scores movie reviews with a lexicon-based heuristic.
//
// LexiconAnalyzer counts English and Vietnamese polarity words, attributes
// clause-level polarity to five aspects (acting, plot, visuals, sound,
// directing) and extracts frequent 2- and 3-word phrases. It sits behind the
// Analyzer interface so a model-backed implementation can replace it.
package sentiment

import (
	"slices"
	"strings"

	"github.com/tomtom215/marquee/internal/metrics"
)

// Label is a coarse sentiment class.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// labelThreshold splits scores into labels: above +0.2 is positive, below
// -0.2 is negative.
const labelThreshold = 0.2

// DefaultMaxKeyPhrases bounds the key phrase list.
const DefaultMaxKeyPhrases = 10

// Result is the polarity of one text.
type Result struct {
	Score     float64 `json:"score"`
	Sentiment Label   `json:"sentiment"`
	Positive  int     `json:"positive"`
	Negative  int     `json:"negative"`
	Neutral   int     `json:"neutral"`
	Total     int     `json:"total"`
}

// Distribution counts items per label.
type Distribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

func (d *Distribution) add(l Label) {
	switch l {
	case Positive:
		d.Positive++
	case Negative:
		d.Negative++
	default:
		d.Neutral++
	}
}

// AspectResult is the sentiment attributed to one aspect.
type AspectResult struct {
	// Sentiment is the mean clause score over mentions.
	Sentiment float64 `json:"sentiment"`
	Mentions  int     `json:"mentions"`
	// MentionPercentage is the share of reviews mentioning the aspect. It is
	// only set by Aggregate; a single text leaves it zero and omitted.
	MentionPercentage float64      `json:"mention_percentage,omitempty"`
	Distribution      Distribution `json:"distribution"`
}

// KeyPhrase is an n-gram and how often it occurred.
type KeyPhrase struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// Analysis is a Result plus aspects and key phrases.
type Analysis struct {
	Result
	Aspects    map[string]AspectResult `json:"aspects"`
	KeyPhrases []KeyPhrase             `json:"key_phrases"`
}

// Analyzer scores review text.
type Analyzer interface {
	Analyze(text string) Result
	AnalyzeWithAspects(text string) Analysis
}

// LexiconAnalyzer is the word-list Analyzer. It is immutable after
// construction and safe for concurrent use.
type LexiconAnalyzer struct {
	polarity      *matcher
	contrastive   *matcher
	aspects       map[string]*matcher
	stop          map[string]struct{}
	maxKeyPhrases int
}

// NewLexiconAnalyzer builds the analyzer. maxKeyPhrases <= 0 uses
// DefaultMaxKeyPhrases.
func NewLexiconAnalyzer(maxKeyPhrases int) *LexiconAnalyzer {
	if maxKeyPhrases <= 0 {
		maxKeyPhrases = DefaultMaxKeyPhrases
	}

	polarity := set(positiveWords, 1)
	for w, v := range set(negativeWords, -1) {
		polarity[w] = v
	}

	aspects := make(map[string]*matcher, len(aspectKeywords))
	for name, kws := range aspectKeywords {
		aspects[name] = newMatcher(set(kws, 1))
	}

	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[normalize(w)] = struct{}{}
	}

	return &LexiconAnalyzer{
		polarity:      newMatcher(polarity),
		contrastive:   newMatcher(set(contrastiveWords, 0)),
		aspects:       aspects,
		stop:          stop,
		maxKeyPhrases: maxKeyPhrases,
	}
}

// Analyze implements Analyzer.
func (a *LexiconAnalyzer) Analyze(text string) Result {
	res := a.analyze(segments(normalize(text)))
	metrics.SentimentAnalyses.WithLabelValues("basic", string(res.Sentiment)).Inc()
	return res
}

// AnalyzeWithAspects implements Analyzer.
func (a *LexiconAnalyzer) AnalyzeWithAspects(text string) Analysis {
	segs := segments(normalize(text))
	res := a.analyze(segs)

	analysis := Analysis{
		Result:     res,
		Aspects:    a.aspectResults(a.clauses(segs)),
		KeyPhrases: a.keyPhrases(segs),
	}
	metrics.SentimentAnalyses.WithLabelValues("aspects", string(res.Sentiment)).Inc()
	return analysis
}

func (a *LexiconAnalyzer) analyze(segs [][]string) Result {
	var res Result
	for _, toks := range segs {
		p, n := a.count(toks)
		res.Positive += p
		res.Negative += n
		res.Total += len(toks)
	}
	res.Neutral = max(res.Total-res.Positive-res.Negative, 0)
	res.Score = polarityScore(res.Positive, res.Negative)
	res.Sentiment = labelFor(res.Score)
	return res
}

func (a *LexiconAnalyzer) count(tokens []string) (pos, neg int) {
	a.polarity.each(tokens, func(p phrase) {
		if p.value > 0 {
			pos++
		} else {
			neg++
		}
	})
	return pos, neg
}

// clauses splits punctuation segments further at contrastive conjunctions.
func (a *LexiconAnalyzer) clauses(segs [][]string) [][]string {
	var out [][]string
	for _, toks := range segs {
		out = append(out, a.contrastive.splitAt(toks)...)
	}
	return out
}

// aspectResults scores each aspect over the clauses that mention it. Only
// mentioned aspects are returned.
func (a *LexiconAnalyzer) aspectResults(clauses [][]string) map[string]AspectResult {
	out := make(map[string]AspectResult)
	for _, name := range AspectNames {
		m := a.aspects[name]
		var sum float64
		var res AspectResult
		for _, clause := range clauses {
			mentioned := false
			m.each(clause, func(phrase) { mentioned = true })
			if !mentioned {
				continue
			}
			p, n := a.count(clause)
			score := polarityScore(p, n)
			sum += score
			res.Mentions++
			res.Distribution.add(labelFor(score))
		}
		if res.Mentions == 0 {
			continue
		}
		res.Sentiment = sum / float64(res.Mentions)
		out[name] = res
	}
	return out
}

// keyPhrases counts contiguous 2- and 3-grams over the stopword-stripped
// token stream and returns the most frequent. Ties keep first appearance.
func (a *LexiconAnalyzer) keyPhrases(segs [][]string) []KeyPhrase {
	var content []string
	for _, toks := range segs {
		for _, t := range toks {
			if _, skip := a.stop[t]; !skip {
				content = append(content, t)
			}
		}
	}

	counts := map[string]int{}
	var order []string
	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(content); i++ {
			gram := strings.Join(content[i:i+n], " ")
			if counts[gram] == 0 {
				order = append(order, gram)
			}
			counts[gram]++
		}
	}
	return topPhrases(order, counts, a.maxKeyPhrases)
}

func topPhrases(order []string, counts map[string]int, limit int) []KeyPhrase {
	phrases := make([]KeyPhrase, 0, len(order))
	for _, p := range order {
		phrases = append(phrases, KeyPhrase{Phrase: p, Count: counts[p]})
	}
	slices.SortStableFunc(phrases, func(x, y KeyPhrase) int { return y.Count - x.Count })
	if len(phrases) > limit {
		phrases = phrases[:limit]
	}
	return phrases
}

// polarityScore is (p - n) / (p + n), or 0 when nothing matched.
func polarityScore(pos, neg int) float64 {
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

func labelFor(score float64) Label {
	switch {
	case score > labelThreshold:
		return Positive
	case score < -labelThreshold:
		return Negative
	default:
		return Neutral
	}
}
