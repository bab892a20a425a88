// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package sentiment

import (
	"math"

	"github.com/tomtom215/marquee/internal/metrics"
)

// Consensus labels.
const (
	ConsensusStrong   = "Strong"
	ConsensusModerate = "Moderate"
	ConsensusDivided  = "Divided"
)

// Consensus describes how much reviewers agree.
type Consensus struct {
	Label string `json:"label"`
	// Entropy is the Shannon entropy of the label proportions divided by
	// ln(3): 0 when every review shares a label, 1 for an even three-way split.
	Entropy float64 `json:"entropy"`
}

// Summary aggregates many reviews of one movie.
type Summary struct {
	Reviews      int                     `json:"reviews"`
	AverageScore float64                 `json:"average_score"`
	Sentiment    Label                   `json:"sentiment"`
	Distribution Distribution            `json:"distribution"`
	Aspects      map[string]AspectResult `json:"aspects"`
	KeyPhrases   []KeyPhrase             `json:"key_phrases"`
	Consensus    Consensus               `json:"consensus"`
}

// Aggregate analyzes every review with a and merges the results. An empty
// review list yields a zero summary with Strong consensus.
func Aggregate(a Analyzer, reviews []string, maxKeyPhrases int) Summary {
	if maxKeyPhrases <= 0 {
		maxKeyPhrases = DefaultMaxKeyPhrases
	}
	summary := Summary{
		Reviews:    len(reviews),
		Sentiment:  Neutral,
		Aspects:    map[string]AspectResult{},
		KeyPhrases: []KeyPhrase{},
	}

	type aspectAcc struct {
		sum     float64
		reviews int
		result  AspectResult
	}
	acc := make(map[string]*aspectAcc, len(AspectNames))
	phraseCounts := map[string]int{}
	var phraseOrder []string
	var scoreSum float64

	for _, text := range reviews {
		an := a.AnalyzeWithAspects(text)
		scoreSum += an.Score
		summary.Distribution.add(an.Sentiment)

		for name, ar := range an.Aspects {
			if ar.Mentions == 0 {
				continue
			}
			x := acc[name]
			if x == nil {
				x = &aspectAcc{}
				acc[name] = x
			}
			x.sum += ar.Sentiment * float64(ar.Mentions)
			x.reviews++
			x.result.Mentions += ar.Mentions
			x.result.Distribution.Positive += ar.Distribution.Positive
			x.result.Distribution.Neutral += ar.Distribution.Neutral
			x.result.Distribution.Negative += ar.Distribution.Negative
		}
		for _, kp := range an.KeyPhrases {
			if phraseCounts[kp.Phrase] == 0 {
				phraseOrder = append(phraseOrder, kp.Phrase)
			}
			phraseCounts[kp.Phrase] += kp.Count
		}
	}

	n := len(reviews)
	if n > 0 {
		summary.AverageScore = scoreSum / float64(n)
		summary.Sentiment = labelFor(summary.AverageScore)
	}
	for _, name := range AspectNames {
		x := acc[name]
		if x == nil {
			continue
		}
		x.result.Sentiment = x.sum / float64(x.result.Mentions)
		x.result.MentionPercentage = float64(x.reviews) / float64(n) * 100
		summary.Aspects[name] = x.result
	}
	summary.KeyPhrases = topPhrases(phraseOrder, phraseCounts, maxKeyPhrases)
	summary.Consensus = consensus(summary.Distribution, n)

	metrics.SentimentAnalyses.WithLabelValues("aggregate", string(summary.Sentiment)).Inc()
	return summary
}

func consensus(d Distribution, n int) Consensus {
	if n == 0 {
		return Consensus{Label: ConsensusStrong}
	}
	var h float64
	for _, c := range []int{d.Positive, d.Neutral, d.Negative} {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		h -= p * math.Log(p)
	}
	h /= math.Log(3)

	label := ConsensusDivided
	switch {
	case h < 0.5:
		label = ConsensusStrong
	case h < 0.8:
		label = ConsensusModerate
	}
	return Consensus{Label: label, Entropy: h}
}
